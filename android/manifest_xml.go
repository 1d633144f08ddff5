package android

import (
	"encoding/xml"
	"strconv"

	"github.com/frantjc/apkcfg"
)

const (
	AndroidManifestName = "AndroidManifest.xml"
	NamespaceAndroid    = "http://schemas.android.com/apk/res/android"
)

type Manifest struct {
	XMLName        xml.Name                 `xml:"manifest"`
	UsesSDK        *ManifestUsesSDK         `xml:"uses-sdk"`
	UsesPermission []ManifestUsesPermission `xml:"uses-permission"`
	UsesFeature    []ManifestUsesFeature    `xml:"uses-feature"`
	Permission     []ManifestPermission     `xml:"permission"`
	Application    ManifestApplication      `xml:"application"`
	Attrs          []xml.Attr               `xml:",any,attr"`
}

func attr(attrs []xml.Attr, space, local string) string {
	for _, attr := range attrs {
		if attr.Name.Local == local && (space == "" || attr.Name.Space == space) {
			return attr.Value
		}
	}

	return ""
}

func (m *Manifest) Package() string {
	return attr(m.Attrs, "", "package")
}

func (m *Manifest) VersionName() string {
	return attr(m.Attrs, NamespaceAndroid, "versionName")
}

func (m *Manifest) VersionCode() int {
	versionCode, _ := strconv.Atoi(attr(m.Attrs, NamespaceAndroid, "versionCode"))
	return versionCode
}

func (m *Manifest) CompileSdkVersion() int {
	compileSdk, _ := strconv.Atoi(attr(m.Attrs, NamespaceAndroid, "compileSdkVersion"))
	return compileSdk
}

// Options returns the options that can be read from the manifest.
// apktool moves uses-sdk out of the manifest into apktool.yml, so
// minSdk and targetSdk are only present for manifests that were not
// decoded by it.
func (m *Manifest) Options() apkcfg.Options {
	opts := apkcfg.Options{}

	if pkg := m.Package(); pkg != "" {
		opts[apkcfg.KeyApplicationID] = pkg
	}

	if versionName := m.VersionName(); versionName != "" {
		opts[apkcfg.KeyVersionName] = versionName
	}

	if versionCode := m.VersionCode(); versionCode > 0 {
		opts[apkcfg.KeyVersionCode] = versionCode
	}

	if compileSdk := m.CompileSdkVersion(); compileSdk > 0 {
		opts[apkcfg.KeyCompileSdk] = compileSdk
	}

	if m.UsesSDK != nil {
		if minSdk, err := strconv.Atoi(attr(m.UsesSDK.Attrs, NamespaceAndroid, "minSdkVersion")); err == nil {
			opts[apkcfg.KeyMinSdk] = minSdk
		}

		if targetSdk, err := strconv.Atoi(attr(m.UsesSDK.Attrs, NamespaceAndroid, "targetSdkVersion")); err == nil {
			opts[apkcfg.KeyTargetSdk] = targetSdk
		}
	}

	return opts
}

type ManifestUsesSDK struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

type ManifestUsesPermission struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

type ManifestUsesFeature struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

type ManifestPermission struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

type ManifestApplication struct {
	Activities      []ManifestApplicationActivity `xml:"activity"`
	ActivityAliases []ManifestApplicationActivity `xml:"activity-alias"`
	Receivers       []ManifestApplicationActivity `xml:"receiver"`
	Services        []ManifestApplicationActivity `xml:"service"`
	Providers       []ManifestApplicationActivity `xml:"providers"`
	UsesLibraries   []ManifestApplicationMetadata `xml:"uses-library"`
	Attrs           []xml.Attr                    `xml:",any,attr"`
}

// Debuggable reports whether the application was built
// with a debug build type.
func (a *ManifestApplication) Debuggable() bool {
	debuggable, _ := strconv.ParseBool(attr(a.Attrs, NamespaceAndroid, "debuggable"))
	return debuggable
}

type ManifestApplicationActivity struct {
	Metadata     ManifestApplicationMetadata     `xml:"metadata"`
	IntentFilter ManifestApplicationIntentFilter `xml:"intent-filter"`
	Attrs        []xml.Attr                      `xml:",any,attr"`
}

type ManifestApplicationIntentFilter struct {
	Actions    []ManifestApplicationMetadata `xml:"action"`
	Categories []ManifestApplicationMetadata `xml:"category"`
}

type ManifestApplicationMetadata struct {
	Attrs []xml.Attr `xml:",any,attr"`
}
