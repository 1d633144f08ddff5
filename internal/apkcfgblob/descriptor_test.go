package apkcfgblob_test

import (
	"context"
	"testing"

	"github.com/frantjc/apkcfg"
	"github.com/frantjc/apkcfg/internal/apkcfgblob"
	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"
)

func TestWriteReadDescriptor(t *testing.T) {
	var (
		ctx    = context.Background()
		bucket = memblob.OpenBucket(nil)
	)
	defer bucket.Close()

	d, err := apkcfg.Resolve(apkcfg.Options{
		apkcfg.KeyApplicationID: "com.example.pdf",
		apkcfg.KeyVersionName:   "1.0",
		apkcfg.KeyVersionCode:   5,
		apkcfg.KeyMinifyEnabled: true,
	})
	if err != nil {
		t.Error(err)
		t.FailNow()
	}

	key, err := apkcfgblob.WriteDescriptor(ctx, bucket, d)
	if err != nil {
		t.Error(err)
		t.FailNow()
	}

	if expected := "com.example.pdf/5/release/descriptor.json"; key != expected {
		t.Error("expected key", expected, "got", key)
	}

	actual, err := apkcfgblob.ReadDescriptor(ctx, bucket, key)
	if err != nil {
		t.Error(err)
		t.FailNow()
	}

	if !actual.Equal(d) {
		t.Error("expected", d, "got", actual)
	}
}

func TestReadDescriptorDigestMismatch(t *testing.T) {
	var (
		ctx    = context.Background()
		bucket = memblob.OpenBucket(nil)
		key    = "com.example.pdf/1/release/descriptor.json"
	)
	defer bucket.Close()

	if err := bucket.WriteAll(ctx, key, []byte(`{"applicationId":"com.example.pdf"}`), &blob.WriterOptions{
		Metadata: map[string]string{"digest": "sha256:0"},
	}); err != nil {
		t.Error(err)
		t.FailNow()
	}

	if _, err := apkcfgblob.ReadDescriptor(ctx, bucket, key); err == nil {
		t.Error("expected a digest mismatch")
	}
}
