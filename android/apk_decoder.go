package android

import (
	"context"
	"encoding/xml"
	"os"
	"path/filepath"

	"github.com/frantjc/apkcfg"
	"github.com/frantjc/apkcfg/apktool"
	"github.com/frantjc/apkcfg/keytool"
	"gopkg.in/yaml.v3"
)

// APKDecoder reads the build options that an already-built .apk was
// packaged with, so that they can be resolved and compared against
// a BuildDescriptor.
type APKDecoder struct {
	Name string

	apktool  apktool.Command
	keytool  keytool.Command
	dir      string
	tmp      bool
	decoded  bool
	manifest *Manifest
	metadata *apktool.Metadata
}

type APKDecoderOpt func(*APKDecoder)

func WithAPKTool(b string) APKDecoderOpt {
	return func(a *APKDecoder) {
		a.apktool = apktool.Command(b)
	}
}

func WithKeytool(b string) APKDecoderOpt {
	return func(a *APKDecoder) {
		a.keytool = keytool.Command(b)
	}
}

func WithDir(dir string) APKDecoderOpt {
	return func(a *APKDecoder) {
		a.dir = dir
	}
}

func NewAPKDecoder(name string, opts ...APKDecoderOpt) *APKDecoder {
	ad := &APKDecoder{Name: name, keytool: "keytool", apktool: "apktool"}

	for _, opt := range opts {
		opt(ad)
	}

	return ad
}

func (a *APKDecoder) decode(ctx context.Context) error {
	if a.decoded {
		return nil
	} else if a.dir == "" {
		var err error
		a.dir, err = os.MkdirTemp("", "apkcfg-*")
		if err != nil {
			return err
		}
		a.tmp = true
	}

	opts := &apktool.DecodeOpts{
		Force:           true,
		NoSources:       true,
		OutputDirectory: a.dir,
	}

	if err := a.apktool.Decode(ctx, a.Name, opts); err != nil {
		return err
	}

	a.decoded = true

	return nil
}

func (a *APKDecoder) Manifest(ctx context.Context) (*Manifest, error) {
	if err := a.decode(ctx); err != nil {
		return nil, err
	}

	if a.manifest != nil {
		return a.manifest, nil
	}

	f, err := os.Open(filepath.Join(a.dir, AndroidManifestName))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	manifest := &Manifest{}
	if err = xml.NewDecoder(f).Decode(manifest); err != nil {
		return nil, err
	}

	a.manifest = manifest
	return a.manifest, nil
}

func (a *APKDecoder) Metadata(ctx context.Context) (*apktool.Metadata, error) {
	if err := a.decode(ctx); err != nil {
		return nil, err
	}

	if a.metadata != nil {
		return a.metadata, nil
	}

	f, err := os.Open(filepath.Join(a.dir, apktool.MetadataName))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	metadata := &apktool.Metadata{}
	if err = yaml.NewDecoder(f).Decode(metadata); err != nil {
		return nil, err
	}

	a.metadata = metadata
	return a.metadata, nil
}

// Options returns the options recorded in the .apk's manifest,
// overlaid with those recorded by apktool.
func (a *APKDecoder) Options(ctx context.Context) (apkcfg.Options, error) {
	manifest, err := a.Manifest(ctx)
	if err != nil {
		return nil, err
	}

	metadata, err := a.Metadata(ctx)
	if err != nil {
		return nil, err
	}

	opts := manifest.Options().Merge(metadata.Options())

	if compileSdk := manifest.CompileSdkVersion(); compileSdk > 0 {
		opts[apkcfg.KeyCompileSdk] = compileSdk
	}

	if manifest.Application.Debuggable() {
		opts[apkcfg.KeyBuildType] = string(apkcfg.BuildTypeDebug)
	} else {
		opts[apkcfg.KeyBuildType] = string(apkcfg.BuildTypeRelease)
	}

	return opts, nil
}

func (a *APKDecoder) SHA256CertFingerprints(ctx context.Context) (string, error) {
	return a.keytool.SHA256CertFingerprints(ctx, a.Name)
}

// Close removes the decoded directory if the APKDecoder created it.
// Unlike deleting uploads, the .apk itself is left alone.
func (a *APKDecoder) Close() error {
	if a.tmp {
		if err := os.RemoveAll(a.dir); err != nil {
			return err
		}
		a.dir = ""
		a.tmp = false
	}

	a.decoded = false
	a.metadata = nil
	a.manifest = nil

	return nil
}
