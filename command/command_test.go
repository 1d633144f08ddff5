package command_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/frantjc/apkcfg"
	"github.com/frantjc/apkcfg/command"
	"github.com/frantjc/apkcfg/internal/apkcfgblob"
	"gocloud.dev/blob"

	_ "gocloud.dev/blob/fileblob"
)

func execute(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()

	var (
		cmd = command.SetCommon(command.NewAPKCfg(), "v0.0.0")
		buf = new(bytes.Buffer)
	)
	cmd.SetArgs(args)
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)

	return buf, cmd.ExecuteContext(context.Background())
}

func TestResolve(t *testing.T) {
	buf, err := execute(t, "resolve",
		"--set", "applicationId=com.example.pdf",
		"--set", "versionName=1.0",
		"--set", "minSdk=23",
	)
	if err != nil {
		t.Error(err)
		t.FailNow()
	}

	d := apkcfg.BuildDescriptor{}
	if err := json.Unmarshal(buf.Bytes(), &d); err != nil {
		t.Error(err)
		t.FailNow()
	}

	if d.ApplicationID != "com.example.pdf" {
		t.Error("expected applicationId com.example.pdf, got", d.ApplicationID)
	}

	if d.MinSdk != 23 {
		t.Error("expected minSdk 23, got", d.MinSdk)
	}

	if d.TargetSdk != apkcfg.CurrentSdk {
		t.Error("expected default targetSdk, got", d.TargetSdk)
	}
}

func TestResolvePlatformDefaults(t *testing.T) {
	buf, err := execute(t, "resolve",
		"--set", "applicationId=com.example.pdf",
		"--set", "versionName=1.0",
		"--target-sdk-default", "34",
		"--compile-sdk-default", "35",
	)
	if err != nil {
		t.Error(err)
		t.FailNow()
	}

	d := apkcfg.BuildDescriptor{}
	if err := json.Unmarshal(buf.Bytes(), &d); err != nil {
		t.Error(err)
		t.FailNow()
	}

	if d.TargetSdk != 34 || d.CompileSdk != 35 {
		t.Error("expected targetSdk 34 and compileSdk 35, got", d.TargetSdk, d.CompileSdk)
	}
}

func TestResolveInvalidRange(t *testing.T) {
	_, err := execute(t, "resolve",
		"--set", "applicationId=com.example.pdf",
		"--set", "versionName=1.0",
		"--set", "minSdk=30",
		"--set", "targetSdk=29",
	)
	if !errors.Is(err, apkcfg.ErrInvalidRange) {
		t.Error("expected ErrInvalidRange, got", err)
	}
}

func TestResolveStrict(t *testing.T) {
	_, err := execute(t, "resolve",
		"--set", "applicationId=com.example.pdf",
		"--set", "versionName=1.0",
		"--set", "flavor=free",
		"--strict",
	)
	if !errors.Is(err, apkcfg.ErrUnknownOption) {
		t.Error("expected ErrUnknownOption, got", err)
	}
}

func TestResolveBlob(t *testing.T) {
	var (
		ctx = context.Background()
		dir = t.TempDir()
	)

	buf, err := execute(t, "resolve",
		"--set", "applicationId=com.example.pdf",
		"--set", "versionName=1.0",
		"--blob", "file://"+dir,
	)
	if err != nil {
		t.Error(err)
		t.FailNow()
	}

	d := apkcfg.BuildDescriptor{}
	if err := json.Unmarshal(buf.Bytes(), &d); err != nil {
		t.Error(err)
		t.FailNow()
	}

	bucket, err := blob.OpenBucket(ctx, "file://"+dir)
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
	defer bucket.Close()

	written, err := apkcfgblob.ReadDescriptor(ctx, bucket, apkcfgblob.DescriptorKey(d))
	if err != nil {
		t.Error(err)
		t.FailNow()
	}

	if !written.Equal(d) {
		t.Error("expected written descriptor to equal printed descriptor")
	}
}

func TestDefaults(t *testing.T) {
	buf, err := execute(t, "defaults", "-o", "json")
	if err != nil {
		t.Error(err)
		t.FailNow()
	}

	status := &apkcfg.PlatformStatus{}
	if err := json.Unmarshal(buf.Bytes(), status); err != nil {
		t.Error(err)
		t.FailNow()
	}

	if status.MinSdk != apkcfg.DefaultMinSdk {
		t.Error("expected default minSdk, got", status.MinSdk)
	}

	if len(status.SigningConfigs) != 1 || status.SigningConfigs[0] != apkcfg.DefaultSigningRef {
		t.Error("expected only the debug signing config, got", status.SigningConfigs)
	}
}

func TestAssetLinks(t *testing.T) {
	fingerprint := "14:6D:E9:83:C5:73:06:50:D8:EE:B9:95:2F:34:FC:64:16:A0:83:42:E6:1D:BE:A8:8A:04:96:B2:3F:CF:44:E5"

	buf, err := execute(t, "assetlinks",
		"--set", "applicationId=com.example.pdf",
		"--set", "versionName=1.0",
		"--fingerprint", fingerprint,
		"--login-creds",
	)
	if err != nil {
		t.Error(err)
		t.FailNow()
	}

	assetLinks := []struct {
		Relation []string `json:"relation"`
		Target   struct {
			PackageName            string   `json:"package_name"`
			SHA256CertFingerprints []string `json:"sha256_cert_fingerprints"`
		} `json:"target"`
	}{}
	if err := json.Unmarshal(buf.Bytes(), &assetLinks); err != nil {
		t.Error(err)
		t.FailNow()
	}

	if len(assetLinks) != 1 {
		t.Error("expected 1 statement, got", len(assetLinks))
		t.FailNow()
	}

	if len(assetLinks[0].Relation) != 2 {
		t.Error("expected 2 relations, got", assetLinks[0].Relation)
	}

	if assetLinks[0].Target.PackageName != "com.example.pdf" {
		t.Error("expected package_name com.example.pdf, got", assetLinks[0].Target.PackageName)
	}

	if len(assetLinks[0].Target.SHA256CertFingerprints) != 1 || assetLinks[0].Target.SHA256CertFingerprints[0] != fingerprint {
		t.Error("expected fingerprint", fingerprint, "got", assetLinks[0].Target.SHA256CertFingerprints)
	}
}

func TestAssetLinksInvalidFingerprint(t *testing.T) {
	if _, err := execute(t, "assetlinks",
		"--set", "applicationId=com.example.pdf",
		"--set", "versionName=1.0",
		"--fingerprint", "nope",
	); err == nil {
		t.Error("expected an error for an invalid fingerprint")
	}
}

func TestInspectNotAPK(t *testing.T) {
	if _, err := execute(t, "inspect", "app.aab"); err == nil {
		t.Error("expected an error for a non-.apk argument")
	}
}
