package android

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"testing"

	"github.com/frantjc/apkcfg"
	"github.com/google/go-cmp/cmp"
)

var (
	//go:embed AndroidManifest.test.xml
	data []byte
)

func TestUnmarshalAndroindManifest(t *testing.T) {
	manifest := &Manifest{}
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(manifest); err != nil {
		t.Error(err)
		t.FailNow()
	}

	expected := apkcfg.Options{
		apkcfg.KeyApplicationID: "com.example.pdf",
		apkcfg.KeyVersionName:   "1.0.3",
		apkcfg.KeyVersionCode:   3,
		apkcfg.KeyMinSdk:        21,
		apkcfg.KeyTargetSdk:     36,
		apkcfg.KeyCompileSdk:    36,
	}

	if diff := cmp.Diff(expected, manifest.Options()); diff != "" {
		t.Error("unexpected options (-want +got):\n" + diff)
	}

	if !manifest.Application.Debuggable() {
		t.Error("expected application to be debuggable")
	}
}
