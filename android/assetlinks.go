package android

import (
	"github.com/frantjc/apkcfg"
)

const (
	AssetLinksPath = "/.well-known/assetlinks.json"

	RelationHandleAllURLs     = "delegate_permission/common.handle_all_urls"
	RelationGetLoginCreds     = "delegate_permission/common.get_login_creds"
	TargetNamespaceAndroidApp = "android_app"
)

type AssetLink struct {
	Relation []string `json:"relation,omitempty"`
	Target   Target   `json:"target,omitempty"`
}

type Target struct {
	Namespace              string   `json:"namespace,omitempty"`
	PackageName            string   `json:"package_name,omitempty"`
	SHA256CertFingerprints []string `json:"sha256_cert_fingerprints,omitempty"`
}

// NewAssetLink returns the Digital Asset Links statement that lets the app
// described by d handle all URLs for the site serving it at AssetLinksPath.
func NewAssetLink(d apkcfg.BuildDescriptor, sha256CertFingerprints ...string) AssetLink {
	return AssetLink{
		Relation: []string{RelationHandleAllURLs},
		Target: Target{
			Namespace:              TargetNamespaceAndroidApp,
			PackageName:            d.ApplicationID,
			SHA256CertFingerprints: sha256CertFingerprints,
		},
	}
}
