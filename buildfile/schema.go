package buildfile

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/frantjc/apkcfg"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"sigs.k8s.io/yaml"
)

const schemaURL = "https://github.com/frantjc/apkcfg/buildfile/options.schema.json"

var (
	//go:embed options.schema.json
	schemaJSON []byte

	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString(schemaURL, string(schemaJSON))
	})
	return compiledSchema, schemaErr
}

// Validate checks the shape of a YAML or JSON options document.
// Each violation is reported as an apkcfg.ErrTypeMismatch.
func Validate(content []byte) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}

	jsonData, err := yaml.YAMLToJSON(content)
	if err != nil {
		return fmt.Errorf("convert yaml to json: %w", err)
	}

	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}

	if document == nil {
		return nil
	}

	if err := sch.Validate(document); err != nil {
		verr := &jsonschema.ValidationError{}
		if errors.As(err, &verr) {
			return errors.Join(schemaErrors(verr)...)
		}

		return err
	}

	return nil
}

func schemaErrors(verr *jsonschema.ValidationError) []error {
	if len(verr.Causes) == 0 {
		return []error{
			&apkcfg.ConfigError{
				Key:    strings.ReplaceAll(strings.TrimPrefix(verr.InstanceLocation, "/"), "/", "."),
				Kind:   apkcfg.ErrTypeMismatch,
				Detail: verr.Message,
			},
		}
	}

	errs := []error{}
	for _, cause := range verr.Causes {
		errs = append(errs, schemaErrors(cause)...)
	}

	return errs
}
