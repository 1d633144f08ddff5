package apkcfg

import (
	"errors"
	"slices"
	"strings"

	"github.com/frantjc/apkcfg/internal/apkcfgregexp"
)

// Resolver turns raw Options into a BuildDescriptor.
// A Resolver holds no mutable state, so one may be
// shared between goroutines.
type Resolver struct {
	Platform       Platform
	SigningConfigs SigningConfigs
	// Strict makes unrecognized option keys an error
	// instead of silently ignoring them.
	Strict bool
}

type ResolverOpt func(*Resolver)

func WithPlatform(platform Platform) ResolverOpt {
	return func(r *Resolver) {
		r.Platform = platform
	}
}

func WithSigningConfigs(signingConfigs SigningConfigs) ResolverOpt {
	return func(r *Resolver) {
		r.SigningConfigs = signingConfigs
	}
}

func WithStrict(strict bool) ResolverOpt {
	return func(r *Resolver) {
		r.Strict = strict
	}
}

func NewResolver(opts ...ResolverOpt) *Resolver {
	r := &Resolver{
		Platform:       DefaultPlatform(),
		SigningConfigs: DefaultSigningConfigs(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve resolves opts against DefaultPlatform and DefaultSigningConfigs.
func Resolve(opts Options) (BuildDescriptor, error) {
	return NewResolver().Resolve(opts)
}

// EffectivePlatform returns r.Platform with any zero fields
// filled in from DefaultPlatform.
func (r *Resolver) EffectivePlatform() Platform {
	var (
		p = r.Platform
		d = DefaultPlatform()
	)

	if p.MinSdk == 0 {
		p.MinSdk = d.MinSdk
	}

	if p.TargetSdk == 0 {
		p.TargetSdk = d.TargetSdk
	}

	if p.CompileSdk == 0 {
		p.CompileSdk = d.CompileSdk
	}

	if p.VersionCode == 0 {
		p.VersionCode = d.VersionCode
	}

	if p.SigningConfigRef == "" {
		p.SigningConfigRef = d.SigningConfigRef
	}

	return p
}

// EffectiveSigningConfigs returns r.SigningConfigs,
// or DefaultSigningConfigs if it is nil.
func (r *Resolver) EffectiveSigningConfigs() SigningConfigs {
	if r.SigningConfigs == nil {
		return DefaultSigningConfigs()
	}

	return r.SigningConfigs
}

// Resolve applies defaults to opts, validates the result and returns it
// as a BuildDescriptor. Every problem found is reported, joined into the
// returned error; each one is a *ConfigError.
func (r *Resolver) Resolve(opts Options) (BuildDescriptor, error) {
	var (
		platform = r.EffectivePlatform()
		errs     = []error{}
		d        = BuildDescriptor{
			MinSdk:           platform.MinSdk,
			TargetSdk:        platform.TargetSdk,
			CompileSdk:       platform.CompileSdk,
			VersionCode:      platform.VersionCode,
			SigningConfigRef: platform.SigningConfigRef,
			BuildType:        BuildTypeRelease,
			JVMTarget:        DefaultJVMTarget,
		}
		lookup = func(key string) (any, bool) {
			raw, ok := opts[key]
			if !ok || raw == nil {
				return nil, false
			}
			return raw, true
		}
	)

	if r.Strict {
		for _, key := range UnknownKeys(opts) {
			errs = append(errs, newConfigError(key, ErrUnknownOption, ""))
		}
	}

	for _, key := range []string{KeyApplicationID, KeyVersionName} {
		raw, ok := lookup(key)
		if !ok {
			errs = append(errs, newConfigError(key, ErrMissingRequired, ""))
			continue
		}

		s, err := toString(key, raw)
		if err != nil {
			errs = append(errs, err)
			continue
		} else if s = strings.TrimSpace(s); s == "" {
			errs = append(errs, newConfigError(key, ErrMissingRequired, "empty"))
			continue
		}

		if key == KeyApplicationID {
			d.ApplicationID = s
		} else {
			d.VersionName = s
		}
	}

	if d.ApplicationID != "" && !apkcfgregexp.IsApplicationID(d.ApplicationID) {
		errs = append(errs, newConfigError(KeyApplicationID, ErrInvalidValue, "%q is not a valid package name", d.ApplicationID))
	}

	d.Namespace = d.ApplicationID
	if raw, ok := lookup(KeyNamespace); ok {
		if s, err := toString(KeyNamespace, raw); err != nil {
			errs = append(errs, err)
		} else if !apkcfgregexp.IsApplicationID(s) {
			errs = append(errs, newConfigError(KeyNamespace, ErrInvalidValue, "%q is not a valid package name", s))
		} else {
			d.Namespace = s
		}
	}

	sdks := []struct {
		key   string
		field *int
		ok    bool
	}{
		{key: KeyMinSdk, field: &d.MinSdk},
		{key: KeyTargetSdk, field: &d.TargetSdk},
		{key: KeyCompileSdk, field: &d.CompileSdk},
	}
	for i := range sdks {
		sdk := &sdks[i]
		sdk.ok = true

		if raw, ok := lookup(sdk.key); ok {
			level, err := toSDK(sdk.key, raw)
			if err != nil {
				errs = append(errs, err)
				sdk.ok = false
				continue
			}
			*sdk.field = level
		}

		if *sdk.field <= 0 {
			errs = append(errs, newConfigError(sdk.key, ErrInvalidRange, "%d is not positive", *sdk.field))
			sdk.ok = false
		}
	}

	if sdks[0].ok && sdks[1].ok && d.MinSdk > d.TargetSdk {
		errs = append(errs, newConfigError(KeyMinSdk, ErrInvalidRange, "%s %d > %s %d", KeyMinSdk, d.MinSdk, KeyTargetSdk, d.TargetSdk))
	}

	if sdks[1].ok && sdks[2].ok && d.TargetSdk > d.CompileSdk {
		errs = append(errs, newConfigError(KeyTargetSdk, ErrInvalidRange, "%s %d > %s %d", KeyTargetSdk, d.TargetSdk, KeyCompileSdk, d.CompileSdk))
	}

	if raw, ok := lookup(KeyVersionCode); ok {
		if versionCode, err := toInt(KeyVersionCode, raw); err != nil {
			errs = append(errs, err)
		} else {
			d.VersionCode = versionCode
		}
	}

	if d.VersionCode <= 0 {
		errs = append(errs, newConfigError(KeyVersionCode, ErrInvalidRange, "%d is not positive", d.VersionCode))
	}

	for _, flag := range []struct {
		key   string
		field *bool
	}{
		{key: KeyMinifyEnabled, field: &d.MinifyEnabled},
		{key: KeyShrinkResources, field: &d.ShrinkResources},
	} {
		if raw, ok := lookup(flag.key); ok {
			if b, err := toBool(flag.key, raw); err != nil {
				errs = append(errs, err)
			} else {
				*flag.field = b
			}
		}
	}

	if d.ShrinkResources && !d.MinifyEnabled {
		errs = append(errs, newConfigError(KeyShrinkResources, ErrConflict, "requires %s", KeyMinifyEnabled))
	}

	if raw, ok := lookup(KeySigningConfigRef); ok {
		if s, err := toString(KeySigningConfigRef, raw); err != nil {
			errs = append(errs, err)
		} else {
			d.SigningConfigRef = strings.TrimSpace(s)
		}
	}

	if _, ok := r.EffectiveSigningConfigs()[d.SigningConfigRef]; !ok {
		errs = append(errs, newConfigError(KeySigningConfigRef, ErrUnknownSigningRef, "%q not in [%s]", d.SigningConfigRef, strings.Join(r.EffectiveSigningConfigs().Names(), ", ")))
	}

	if raw, ok := lookup(KeyBuildType); ok {
		if bt, err := toBuildType(KeyBuildType, raw); err != nil {
			errs = append(errs, err)
		} else {
			d.BuildType = bt
		}
	}

	if raw, ok := lookup(KeyJVMTarget); ok {
		if s, err := toString(KeyJVMTarget, raw); err != nil {
			errs = append(errs, err)
		} else if !apkcfgregexp.IsJVMTarget(s) {
			errs = append(errs, newConfigError(KeyJVMTarget, ErrInvalidValue, "%q is not a supported JVM target", s))
		} else {
			d.JVMTarget = s
		}
	}

	d.ProguardFiles = []string{}
	if raw, ok := lookup(KeyProguardFiles); ok {
		if files, err := toStringList(KeyProguardFiles, raw); err != nil {
			errs = append(errs, err)
		} else {
			d.ProguardFiles = files
		}
	} else if d.MinifyEnabled {
		d.ProguardFiles = slices.Clone(DefaultProguardFiles)
	}

	if err := errors.Join(errs...); err != nil {
		return BuildDescriptor{}, err
	}

	return d, nil
}
