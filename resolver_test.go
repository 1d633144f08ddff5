package apkcfg_test

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/frantjc/apkcfg"
	"github.com/google/go-cmp/cmp"
)

func exampleOptions() apkcfg.Options {
	return apkcfg.Options{
		apkcfg.KeyApplicationID:    "com.example.pdf",
		apkcfg.KeyMinSdk:           21,
		apkcfg.KeyTargetSdk:        36,
		apkcfg.KeyCompileSdk:       36,
		apkcfg.KeyVersionCode:      1,
		apkcfg.KeyVersionName:      "1.0",
		apkcfg.KeySigningConfigRef: "debug",
	}
}

func TestResolveExample(t *testing.T) {
	d, err := apkcfg.Resolve(exampleOptions())
	if err != nil {
		t.Error(err)
		t.FailNow()
	}

	expected := apkcfg.BuildDescriptor{
		ApplicationID:    "com.example.pdf",
		Namespace:        "com.example.pdf",
		MinSdk:           21,
		TargetSdk:        36,
		CompileSdk:       36,
		VersionCode:      1,
		VersionName:      "1.0",
		MinifyEnabled:    false,
		ShrinkResources:  false,
		SigningConfigRef: "debug",
		BuildType:        apkcfg.BuildTypeRelease,
		JVMTarget:        "11",
		ProguardFiles:    []string{},
	}

	if diff := cmp.Diff(expected, d); diff != "" {
		t.Error("unexpected descriptor (-want +got):\n" + diff)
	}
}

func TestResolveDefaults(t *testing.T) {
	d, err := apkcfg.NewResolver(
		apkcfg.WithPlatform(apkcfg.Platform{MinSdk: 24, TargetSdk: 35, CompileSdk: 35}),
	).Resolve(apkcfg.Options{
		apkcfg.KeyApplicationID: "com.example.pdf",
		apkcfg.KeyVersionName:   "1.0.0",
	})
	if err != nil {
		t.Error(err)
		t.FailNow()
	}

	if d.MinSdk != 24 || d.TargetSdk != 35 || d.CompileSdk != 35 {
		t.Error("expected platform SDK defaults, got", d.MinSdk, d.TargetSdk, d.CompileSdk)
	}

	if d.VersionCode != 1 {
		t.Error("expected default versionCode 1, got", d.VersionCode)
	}

	if d.SigningConfigRef != apkcfg.DefaultSigningRef {
		t.Error("expected default signing config", apkcfg.DefaultSigningRef, "got", d.SigningConfigRef)
	}
}

func TestResolveValidOrderings(t *testing.T) {
	for minSdk := 1; minSdk <= 4; minSdk++ {
		for targetSdk := minSdk; targetSdk <= 4; targetSdk++ {
			for compileSdk := targetSdk; compileSdk <= 4; compileSdk++ {
				opts := exampleOptions()
				opts[apkcfg.KeyMinSdk] = minSdk
				opts[apkcfg.KeyTargetSdk] = targetSdk
				opts[apkcfg.KeyCompileSdk] = compileSdk

				if _, err := apkcfg.Resolve(opts); err != nil {
					t.Error(minSdk, targetSdk, compileSdk, err)
				}
			}
		}
	}
}

func TestResolveErrors(t *testing.T) {
	for name, tc := range map[string]struct {
		set      apkcfg.Options
		unset    []string
		strict   bool
		expected error
		key      string
	}{
		"minSdk above targetSdk": {
			set:      apkcfg.Options{apkcfg.KeyMinSdk: 30, apkcfg.KeyTargetSdk: 29},
			expected: apkcfg.ErrInvalidRange,
			key:      apkcfg.KeyMinSdk,
		},
		"targetSdk above compileSdk": {
			set:      apkcfg.Options{apkcfg.KeyTargetSdk: 36, apkcfg.KeyCompileSdk: 35},
			expected: apkcfg.ErrInvalidRange,
			key:      apkcfg.KeyTargetSdk,
		},
		"non-positive minSdk": {
			set:      apkcfg.Options{apkcfg.KeyMinSdk: 0},
			expected: apkcfg.ErrInvalidRange,
			key:      apkcfg.KeyMinSdk,
		},
		"non-positive versionCode": {
			set:      apkcfg.Options{apkcfg.KeyVersionCode: -1},
			expected: apkcfg.ErrInvalidRange,
			key:      apkcfg.KeyVersionCode,
		},
		"missing applicationId": {
			unset:    []string{apkcfg.KeyApplicationID},
			expected: apkcfg.ErrMissingRequired,
			key:      apkcfg.KeyApplicationID,
		},
		"missing versionName": {
			unset:    []string{apkcfg.KeyVersionName},
			expected: apkcfg.ErrMissingRequired,
			key:      apkcfg.KeyVersionName,
		},
		"empty versionName": {
			set:      apkcfg.Options{apkcfg.KeyVersionName: " "},
			expected: apkcfg.ErrMissingRequired,
			key:      apkcfg.KeyVersionName,
		},
		"unknown signing config": {
			set:      apkcfg.Options{apkcfg.KeySigningConfigRef: "upload"},
			expected: apkcfg.ErrUnknownSigningRef,
			key:      apkcfg.KeySigningConfigRef,
		},
		"minSdk not a number": {
			set:      apkcfg.Options{apkcfg.KeyMinSdk: "twenty-one"},
			expected: apkcfg.ErrTypeMismatch,
			key:      apkcfg.KeyMinSdk,
		},
		"versionCode fractional": {
			set:      apkcfg.Options{apkcfg.KeyVersionCode: 1.5},
			expected: apkcfg.ErrTypeMismatch,
			key:      apkcfg.KeyVersionCode,
		},
		"minifyEnabled not a bool": {
			set:      apkcfg.Options{apkcfg.KeyMinifyEnabled: 1},
			expected: apkcfg.ErrTypeMismatch,
			key:      apkcfg.KeyMinifyEnabled,
		},
		"applicationId not a string": {
			set:      apkcfg.Options{apkcfg.KeyApplicationID: 7},
			expected: apkcfg.ErrTypeMismatch,
			key:      apkcfg.KeyApplicationID,
		},
		"applicationId malformed": {
			set:      apkcfg.Options{apkcfg.KeyApplicationID: "pdf"},
			expected: apkcfg.ErrInvalidValue,
			key:      apkcfg.KeyApplicationID,
		},
		"unknown build type": {
			set:      apkcfg.Options{apkcfg.KeyBuildType: "profile"},
			expected: apkcfg.ErrInvalidValue,
			key:      apkcfg.KeyBuildType,
		},
		"unsupported jvmTarget": {
			set:      apkcfg.Options{apkcfg.KeyJVMTarget: "9"},
			expected: apkcfg.ErrInvalidValue,
			key:      apkcfg.KeyJVMTarget,
		},
		"shrink without minify": {
			set:      apkcfg.Options{apkcfg.KeyShrinkResources: true},
			expected: apkcfg.ErrConflict,
			key:      apkcfg.KeyShrinkResources,
		},
		"strict unknown key": {
			set:      apkcfg.Options{"ndkVersion": "27.0.12077973"},
			strict:   true,
			expected: apkcfg.ErrUnknownOption,
			key:      "ndkVersion",
		},
	} {
		t.Run(name, func(t *testing.T) {
			opts := exampleOptions().Merge(tc.set)
			for _, key := range tc.unset {
				delete(opts, key)
			}

			_, err := apkcfg.NewResolver(apkcfg.WithStrict(tc.strict)).Resolve(opts)
			if !errors.Is(err, tc.expected) {
				t.Error("expected", tc.expected, "got", err)
				t.FailNow()
			}

			cerr := &apkcfg.ConfigError{}
			if !errors.As(err, &cerr) {
				t.Error("expected a *ConfigError, got", err)
				t.FailNow()
			}

			if cerr.Key != tc.key {
				t.Error("expected key", tc.key, "got", cerr.Key)
			}
		})
	}
}

func TestResolveReportsEveryError(t *testing.T) {
	_, err := apkcfg.Resolve(apkcfg.Options{
		apkcfg.KeyMinSdk:           30,
		apkcfg.KeyTargetSdk:        29,
		apkcfg.KeySigningConfigRef: "upload",
	})

	for _, expected := range []error{
		apkcfg.ErrMissingRequired,
		apkcfg.ErrInvalidRange,
		apkcfg.ErrUnknownSigningRef,
	} {
		if !errors.Is(err, expected) {
			t.Error("expected", expected, "in", err)
		}
	}
}

func TestResolveIgnoresUnknownKeys(t *testing.T) {
	opts := exampleOptions().Merge(apkcfg.Options{"ndkVersion": "27.0.12077973"})

	if _, err := apkcfg.Resolve(opts); err != nil {
		t.Error(err)
	}

	if unknown := apkcfg.UnknownKeys(opts); len(unknown) != 1 || unknown[0] != "ndkVersion" {
		t.Error("expected ndkVersion to be unknown, got", unknown)
	}
}

func TestResolveCoercion(t *testing.T) {
	d, err := apkcfg.Resolve(exampleOptions().Merge(apkcfg.Options{
		apkcfg.KeyMinSdk:          "L",
		apkcfg.KeyTargetSdk:       "35",
		apkcfg.KeyCompileSdk:      float64(36),
		apkcfg.KeyVersionCode:     int64(42),
		apkcfg.KeyMinifyEnabled:   "true",
		apkcfg.KeyShrinkResources: true,
		apkcfg.KeyBuildType:       "DEBUG",
	}))
	if err != nil {
		t.Error(err)
		t.FailNow()
	}

	if d.MinSdk != 21 || d.TargetSdk != 35 || d.CompileSdk != 36 || d.VersionCode != 42 {
		t.Error("unexpected coerced integers", d.MinSdk, d.TargetSdk, d.CompileSdk, d.VersionCode)
	}

	if !d.MinifyEnabled || !d.ShrinkResources {
		t.Error("expected minify and shrink to be enabled")
	}

	if d.BuildType != apkcfg.BuildTypeDebug {
		t.Error("expected build type debug, got", d.BuildType)
	}

	if diff := cmp.Diff(apkcfg.DefaultProguardFiles, d.ProguardFiles); diff != "" {
		t.Error("expected default proguard files when minifying (-want +got):\n" + diff)
	}
}

func TestResolveCustomSigningConfig(t *testing.T) {
	r := apkcfg.NewResolver(
		apkcfg.WithSigningConfigs(apkcfg.DefaultSigningConfigs().With(apkcfg.SigningConfig{
			Name:      "upload",
			StoreFile: "upload-keystore.jks",
			KeyAlias:  "upload",
		})),
	)

	d, err := r.Resolve(exampleOptions().Merge(apkcfg.Options{apkcfg.KeySigningConfigRef: "upload"}))
	if err != nil {
		t.Error(err)
		t.FailNow()
	}

	if d.SigningConfigRef != "upload" {
		t.Error("expected signing config upload, got", d.SigningConfigRef)
	}
}

func TestResolveWithoutHome(t *testing.T) {
	t.Setenv("HOME", "")

	if _, err := apkcfg.Resolve(exampleOptions()); err != nil {
		t.Error(err)
	}

	if sc := apkcfg.DebugSigningConfig(); sc.StoreFile != "" {
		t.Error("expected the debug signing config to leave StoreFile empty, got", sc.StoreFile)
	}
}

func TestSigningConfigKeystore(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	keystore, err := apkcfg.DebugSigningConfig().Keystore()
	if err != nil {
		t.Error(err)
		t.FailNow()
	}

	if expected := filepath.Join(home, ".android", "debug.keystore"); keystore != expected {
		t.Error("expected", expected, "got", keystore)
	}

	if keystore, err = (apkcfg.SigningConfig{Name: "upload", StoreFile: "upload.jks"}).Keystore(); err != nil || keystore != "upload.jks" {
		t.Error("expected upload.jks, got", keystore, err)
	}

	if _, err = (apkcfg.SigningConfig{Name: "upload"}).Keystore(); err == nil {
		t.Error("expected an error for a signing config with no store file")
	}
}

func TestResolveIdempotent(t *testing.T) {
	var (
		opts = exampleOptions().Merge(apkcfg.Options{apkcfg.KeyMinifyEnabled: true})
		r    = apkcfg.NewResolver()
		wg   sync.WaitGroup
	)

	first, err := r.Resolve(opts)
	if err != nil {
		t.Error(err)
		t.FailNow()
	}

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			d, err := r.Resolve(opts)
			if err != nil {
				t.Error(err)
				return
			}

			if !d.Equal(first) {
				t.Error("expected equal descriptors", first, d)
			}

			if d.Digest() != first.Digest() {
				t.Error("expected equal digests", first.Digest(), d.Digest())
			}
		}()
	}

	wg.Wait()
}

func TestDescriptorOptionsRoundTrip(t *testing.T) {
	d, err := apkcfg.Resolve(exampleOptions().Merge(apkcfg.Options{
		apkcfg.KeyMinifyEnabled:   true,
		apkcfg.KeyShrinkResources: true,
		apkcfg.KeyNamespace:       "com.example.pdf.app",
	}))
	if err != nil {
		t.Error(err)
		t.FailNow()
	}

	again, err := apkcfg.Resolve(d.Options())
	if err != nil {
		t.Error(err)
		t.FailNow()
	}

	if !again.Equal(d) {
		t.Error("expected round trip through Options to be lossless", cmp.Diff(d, again))
	}
}

func TestDescriptorSemVer(t *testing.T) {
	for versionName, expected := range map[string]string{
		"1.0":          "v1.0.0",
		"v2.3.4":       "v2.3.4",
		"1.2.3-beta.1": "v1.2.3-beta.1",
		"nightly":      "",
	} {
		if actual := (apkcfg.BuildDescriptor{VersionName: versionName}).SemVer(); actual != expected {
			t.Error("SemVer", versionName, "expected", expected, "got", actual)
		}
	}
}

func TestParseAPILevel(t *testing.T) {
	for s, expected := range map[string]int{
		"21":      21,
		"o":       26,
		"S-V2":    32,
		"Baklava": 36,
	} {
		if actual, ok := apkcfg.ParseAPILevel(s); !ok || actual != expected {
			t.Error("ParseAPILevel", s, "expected", expected, "got", actual, ok)
		}
	}

	if _, ok := apkcfg.ParseAPILevel("Z"); ok {
		t.Error("expected Z to be an unknown codename")
	}
}
