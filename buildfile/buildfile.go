// Package buildfile loads apkcfg.Options and apkcfg.SigningConfigs from files.
//
// Three formats are understood, chosen by file name:
//
//   - apktool.yml, the metadata that `apktool decode` writes next to a decoded .apk
//   - *.hcl, top-level attributes are options and `signingConfig "name" {}` blocks declare signing configs
//   - *.yaml, *.yml and *.json, a flat mapping of options with an optional `signingConfigs` mapping
package buildfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/frantjc/apkcfg"
	"github.com/frantjc/apkcfg/apktool"
	"github.com/frantjc/apkcfg/internal/apkcfgregexp"
	"gopkg.in/yaml.v3"
)

// File is the content of one or more loaded files.
type File struct {
	Options        apkcfg.Options
	SigningConfigs []apkcfg.SigningConfig
}

// Merge overlays src onto f. Options and signing configs
// from src win over those already in f.
func (f *File) Merge(src *File) *File {
	if f.Options == nil {
		f.Options = apkcfg.Options{}
	}

	if src == nil {
		return f
	}

	f.Options = f.Options.Merge(src.Options)
	f.SigningConfigs = append(f.SigningConfigs, src.SigningConfigs...)

	return f
}

// Register returns signingConfigs with every signing config in f added.
func (f *File) Register(signingConfigs apkcfg.SigningConfigs) apkcfg.SigningConfigs {
	return signingConfigs.With(f.SigningConfigs...)
}

// Load reads the file at name, choosing a decoder based on its name.
func Load(name string) (*File, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}

	var (
		base = strings.ToLower(filepath.Base(name))
		f    *File
	)

	switch {
	case base == apktool.MetadataName:
		f, err = DecodeAPKToolMetadata(b)
	case filepath.Ext(base) == ".hcl":
		f, err = DecodeHCL(b, name)
	case filepath.Ext(base) == ".yaml", filepath.Ext(base) == ".yml", filepath.Ext(base) == ".json":
		f, err = DecodeYAML(b)
	default:
		return nil, fmt.Errorf("unable to determine format of %s", name)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	return f, nil
}

// LoadAll loads each of names in order and merges them.
func LoadAll(names ...string) (*File, error) {
	f := &File{Options: apkcfg.Options{}}

	for _, name := range names {
		g, err := Load(name)
		if err != nil {
			return nil, err
		}

		f.Merge(g)
	}

	return f, nil
}

type yamlFile struct {
	SigningConfigs map[string]apkcfg.SigningConfig `yaml:"signingConfigs"`
	Options        map[string]yaml.Node            `yaml:",inline"`
}

// DecodeYAML decodes a YAML or JSON options document after validating its shape.
// Scalars of string-typed options keep their literal text, so that
// `versionName: 1.10` is "1.10" rather than the number 1.1.
func DecodeYAML(b []byte) (*File, error) {
	if err := Validate(b); err != nil {
		return nil, err
	}

	var (
		raw = &yamlFile{}
		f   = &File{Options: apkcfg.Options{}}
	)

	if err := yaml.NewDecoder(bytes.NewReader(b)).Decode(raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	for key, node := range raw.Options {
		if t, ok := apkcfg.OptionTypes[key]; ok && t == apkcfg.TypeString && node.Kind == yaml.ScalarNode {
			f.Options[key] = node.Value
			continue
		}

		var value any
		if err := node.Decode(&value); err != nil {
			return nil, &apkcfg.ConfigError{Key: key, Kind: apkcfg.ErrTypeMismatch, Detail: err.Error()}
		}

		f.Options[key] = value
	}

	names := make([]string, 0, len(raw.SigningConfigs))
	for name := range raw.SigningConfigs {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		sc := raw.SigningConfigs[name]
		sc.Name = name
		f.SigningConfigs = append(f.SigningConfigs, sc)
	}

	return f, validateSigningConfigs(f.SigningConfigs)
}

// DecodeAPKToolMetadata decodes an apktool.yml.
func DecodeAPKToolMetadata(b []byte) (*File, error) {
	metadata := &apktool.Metadata{}

	if err := yaml.Unmarshal(b, metadata); err != nil {
		return nil, err
	}

	return &File{Options: metadata.Options()}, nil
}

func validateSigningConfigs(signingConfigs []apkcfg.SigningConfig) error {
	for _, sc := range signingConfigs {
		if !apkcfgregexp.IsSigningConfigName(sc.Name) {
			return &apkcfg.ConfigError{Key: "signingConfigs", Kind: apkcfg.ErrInvalidValue, Detail: fmt.Sprintf("invalid name %q", sc.Name)}
		}
	}

	return nil
}
