package apkcfg

import (
	"encoding/json"
	"slices"

	xstrings "github.com/frantjc/x/strings"
	"github.com/opencontainers/go-digest"
	"golang.org/x/mod/semver"
)

// BuildDescriptor is the validated result of resolving a set of Options.
// It is produced once per build invocation by a Resolver and handed by
// value to whatever packages the build. Nothing in this module mutates one.
type BuildDescriptor struct {
	ApplicationID    string    `json:"applicationId" yaml:"applicationId"`
	Namespace        string    `json:"namespace" yaml:"namespace"`
	MinSdk           int       `json:"minSdk" yaml:"minSdk"`
	TargetSdk        int       `json:"targetSdk" yaml:"targetSdk"`
	CompileSdk       int       `json:"compileSdk" yaml:"compileSdk"`
	VersionCode      int       `json:"versionCode" yaml:"versionCode"`
	VersionName      string    `json:"versionName" yaml:"versionName"`
	MinifyEnabled    bool      `json:"minifyEnabled" yaml:"minifyEnabled"`
	ShrinkResources  bool      `json:"shrinkResources" yaml:"shrinkResources"`
	SigningConfigRef string    `json:"signingConfigRef" yaml:"signingConfigRef"`
	BuildType        BuildType `json:"buildType" yaml:"buildType"`
	JVMTarget        string    `json:"jvmTarget" yaml:"jvmTarget"`
	ProguardFiles    []string  `json:"proguardFiles" yaml:"proguardFiles"`
}

// Equal reports whether d and o are equal field-by-field.
func (d BuildDescriptor) Equal(o BuildDescriptor) bool {
	return d.ApplicationID == o.ApplicationID &&
		d.Namespace == o.Namespace &&
		d.MinSdk == o.MinSdk &&
		d.TargetSdk == o.TargetSdk &&
		d.CompileSdk == o.CompileSdk &&
		d.VersionCode == o.VersionCode &&
		d.VersionName == o.VersionName &&
		d.MinifyEnabled == o.MinifyEnabled &&
		d.ShrinkResources == o.ShrinkResources &&
		d.SigningConfigRef == o.SigningConfigRef &&
		d.BuildType == o.BuildType &&
		d.JVMTarget == o.JVMTarget &&
		slices.Equal(d.ProguardFiles, o.ProguardFiles)
}

// Digest returns the sha256 digest of d's JSON encoding.
func (d BuildDescriptor) Digest() digest.Digest {
	b, err := json.Marshal(d)
	if err != nil {
		// Every field is a string, int, bool or []string.
		panic(err)
	}

	return digest.FromBytes(b)
}

// SemVer returns the canonical semantic version for d's versionName,
// or the empty string if versionName is not a semantic version.
func (d BuildDescriptor) SemVer() string {
	return semver.Canonical(xstrings.EnsurePrefix(d.VersionName, "v"))
}

// Options converts d back into Options which, when resolved
// with the same Platform and SigningConfigs, produce d again.
func (d BuildDescriptor) Options() Options {
	return Options{
		KeyApplicationID:    d.ApplicationID,
		KeyNamespace:        d.Namespace,
		KeyMinSdk:           d.MinSdk,
		KeyTargetSdk:        d.TargetSdk,
		KeyCompileSdk:       d.CompileSdk,
		KeyVersionCode:      d.VersionCode,
		KeyVersionName:      d.VersionName,
		KeyMinifyEnabled:    d.MinifyEnabled,
		KeyShrinkResources:  d.ShrinkResources,
		KeySigningConfigRef: d.SigningConfigRef,
		KeyBuildType:        string(d.BuildType),
		KeyJVMTarget:        d.JVMTarget,
		KeyProguardFiles:    slices.Clone(d.ProguardFiles),
	}
}
