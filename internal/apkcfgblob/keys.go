package apkcfgblob

import (
	"path"
	"strconv"

	"github.com/frantjc/apkcfg"
)

func DescriptorKey(d apkcfg.BuildDescriptor) string {
	return path.Join(d.ApplicationID, strconv.Itoa(d.VersionCode), string(d.BuildType), "descriptor.json")
}

func AssetLinksKey(d apkcfg.BuildDescriptor) string {
	return path.Join(d.ApplicationID, strconv.Itoa(d.VersionCode), string(d.BuildType), "assetlinks.json")
}
