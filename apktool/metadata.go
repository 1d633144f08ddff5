package apktool

import (
	"fmt"
	"strconv"

	"github.com/frantjc/apkcfg"
	"gopkg.in/yaml.v3"
)

const (
	MetadataName = "apktool.yml"
)

type UsesFramework struct {
	IDs []int `yaml:"ids"`
	Tag any   `yaml:"tag"`
}

type SDKInfo struct {
	MinSDKVersion    FlexInt `yaml:"minSdkVersion"`
	TargetSDKVersion FlexInt `yaml:"targetSdkVersion"`
}

type PackageInfo struct {
	ForcedPackageID       FlexInt `yaml:"forcedPackageId"`
	RenameManifestPackage any     `yaml:"renameManifestPackage"`
}

type VersionInfo struct {
	VersionCode FlexInt `yaml:"versionCode"`
	VersionName string  `yaml:"versionName"`
}

type Metadata struct {
	Version                string         `yaml:"version,omitempty"`
	APKFileName            string         `yaml:"apkFileName,omitempty"`
	IsFrameworkAPK         bool           `yaml:"isFrameworkApk,omitempty"`
	UsesFramework          *UsesFramework `yaml:"usesFramework,omitempty"`
	SDKInfo                *SDKInfo       `yaml:"sdkInfo,omitempty"`
	PackageInfo            *PackageInfo   `yaml:"packageInfo,omitempty"`
	VersionInfo            *VersionInfo   `yaml:"versionInfo,omitempty"`
	ResourcesAreCompressed bool           `yaml:"resourcesAreCompressed,omitempty"`
	SharedLibrary          bool           `yaml:"sharedLibrary,omitempty"`
	SparseResources        bool           `yaml:"sparseResources,omitempty"`
	UnknownFiles           map[string]int `yaml:"unknownFiles,omitempty"`
	DoNotCompress          []string       `yaml:"doNotCompress,omitempty"`
}

// FlexInt is an integer that apktool writes either bare
// or quoted, e.g. minSdkVersion: '21'.
type FlexInt int

func (i *FlexInt) UnmarshalYAML(value *yaml.Node) error {
	n, err := strconv.Atoi(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}

	*i = FlexInt(n)
	return nil
}

// NewMetadata renders the parts of d that apktool records.
func NewMetadata(d apkcfg.BuildDescriptor) *Metadata {
	return &Metadata{
		Version: d.VersionName,
		SDKInfo: &SDKInfo{
			MinSDKVersion:    FlexInt(d.MinSdk),
			TargetSDKVersion: FlexInt(d.TargetSdk),
		},
		VersionInfo: &VersionInfo{
			VersionCode: FlexInt(d.VersionCode),
			VersionName: d.VersionName,
		},
	}
}

// Options returns the options recorded in m. apktool does not record
// the application ID, see android.Manifest.Package for that.
func (m *Metadata) Options() apkcfg.Options {
	opts := apkcfg.Options{}

	if m.SDKInfo != nil {
		if m.SDKInfo.MinSDKVersion > 0 {
			opts[apkcfg.KeyMinSdk] = int(m.SDKInfo.MinSDKVersion)
		}

		if m.SDKInfo.TargetSDKVersion > 0 {
			opts[apkcfg.KeyTargetSdk] = int(m.SDKInfo.TargetSDKVersion)
			// apktool does not record compileSdkVersion; the
			// target is the lowest value consistent with it.
			opts[apkcfg.KeyCompileSdk] = int(m.SDKInfo.TargetSDKVersion)
		}
	}

	if m.VersionInfo != nil {
		if m.VersionInfo.VersionCode > 0 {
			opts[apkcfg.KeyVersionCode] = int(m.VersionInfo.VersionCode)
		}

		if m.VersionInfo.VersionName != "" {
			opts[apkcfg.KeyVersionName] = m.VersionInfo.VersionName
		}
	}

	return opts
}
