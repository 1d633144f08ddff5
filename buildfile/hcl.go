package buildfile

import (
	"fmt"
	"math/big"
	"os"

	"github.com/frantjc/apkcfg"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
)

type hclFile struct {
	SigningConfigs []*hclSigningConfig `hcl:"signingConfig,block"`
	Options        hcl.Body            `hcl:",remain"`
}

type hclSigningConfig struct {
	Name          string `hcl:"name,label"`
	StoreFile     string `hcl:"storeFile"`
	StorePassword string `hcl:"storePassword,optional"`
	KeyAlias      string `hcl:"keyAlias,optional"`
	KeyPassword   string `hcl:"keyPassword,optional"`
}

// envFunc lets a file read secrets such as keystore
// passwords from the environment: env("KEYSTORE_PASSWORD").
var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})

func newEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": envFunc,
		},
	}
}

// DecodeHCL decodes an HCL options file. filename is only used in diagnostics.
func DecodeHCL(src []byte, filename string) (*File, error) {
	hclf, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse HCL: %w", diags)
	}

	var (
		parsed  = &hclFile{}
		evalCtx = newEvalContext()
		f       = &File{Options: apkcfg.Options{}}
	)

	if diags = gohcl.DecodeBody(hclf.Body, evalCtx, parsed); diags.HasErrors() {
		return nil, fmt.Errorf("decode HCL: %w", diags)
	}

	attrs, diags := parsed.Options.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("decode HCL attributes: %w", diags)
	}

	for name, attr := range attrs {
		var err error

		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluate %s: %w", name, diags)
		}

		// Numbers given for string options, e.g. jvmTarget = 17, are
		// taken as their decimal text. Trailing zeros are not kept.
		if apkcfg.OptionTypes[name] == apkcfg.TypeString && val.Type() == cty.Number {
			if val, err = convert.Convert(val, cty.String); err != nil {
				return nil, &apkcfg.ConfigError{Key: name, Kind: apkcfg.ErrTypeMismatch, Detail: err.Error()}
			}
		}

		raw, err := ctyToGo(val)
		if err != nil {
			return nil, &apkcfg.ConfigError{Key: name, Kind: apkcfg.ErrTypeMismatch, Detail: err.Error()}
		}

		f.Options[name] = raw
	}

	for _, sc := range parsed.SigningConfigs {
		f.SigningConfigs = append(f.SigningConfigs, apkcfg.SigningConfig{
			Name:          sc.Name,
			StoreFile:     sc.StoreFile,
			StorePassword: sc.StorePassword,
			KeyAlias:      sc.KeyAlias,
			KeyPassword:   sc.KeyPassword,
		})
	}

	return f, validateSigningConfigs(f.SigningConfigs)
}

func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	} else if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return int(i), nil
		}

		f, _ := bf.Float64()
		return f, nil
	case ty.IsListType(), ty.IsTupleType(), ty.IsSetType():
		list := []any{}
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()

			raw, err := ctyToGo(elem)
			if err != nil {
				return nil, err
			}

			list = append(list, raw)
		}

		return list, nil
	}

	return nil, fmt.Errorf("unsupported type %s", ty.FriendlyName())
}
