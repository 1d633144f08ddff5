package apkcfgblob

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/frantjc/apkcfg"
	"gocloud.dev/blob"
)

// WriteDescriptor writes d to bucket at DescriptorKey(d)
// and returns the key that it was written to.
func WriteDescriptor(ctx context.Context, bucket *blob.Bucket, d apkcfg.BuildDescriptor) (string, error) {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}

	key := DescriptorKey(d)

	if err = bucket.WriteAll(ctx, key, b, &blob.WriterOptions{
		ContentType: "application/json",
		Metadata: map[string]string{
			"digest": d.Digest().String(),
		},
	}); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}

	return key, nil
}

// ReadDescriptor reads the descriptor at key from bucket
// and checks it against the digest it was written with.
func ReadDescriptor(ctx context.Context, bucket *blob.Bucket, key string) (apkcfg.BuildDescriptor, error) {
	d := apkcfg.BuildDescriptor{}

	attrs, err := bucket.Attributes(ctx, key)
	if err != nil {
		return d, err
	}

	b, err := bucket.ReadAll(ctx, key)
	if err != nil {
		return d, err
	}

	if err = json.Unmarshal(b, &d); err != nil {
		return d, err
	}

	if expected := attrs.Metadata["digest"]; expected != "" && expected != d.Digest().String() {
		return d, fmt.Errorf("digest mismatch for %s: expected %s, got %s", key, expected, d.Digest())
	}

	return d, nil
}

// WriteJSON writes a as indented JSON to bucket at key.
func WriteJSON(ctx context.Context, bucket *blob.Bucket, key string, a any) error {
	b, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}

	return bucket.WriteAll(ctx, key, b, &blob.WriterOptions{ContentType: "application/json"})
}
