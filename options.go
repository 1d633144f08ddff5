package apkcfg

import (
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

const (
	KeyApplicationID    = "applicationId"
	KeyNamespace        = "namespace"
	KeyMinSdk           = "minSdk"
	KeyTargetSdk        = "targetSdk"
	KeyCompileSdk       = "compileSdk"
	KeyVersionCode      = "versionCode"
	KeyVersionName      = "versionName"
	KeyMinifyEnabled    = "minifyEnabled"
	KeyShrinkResources  = "shrinkResources"
	KeySigningConfigRef = "signingConfigRef"
	KeyBuildType        = "buildType"
	KeyJVMTarget        = "jvmTarget"
	KeyProguardFiles    = "proguardFiles"
)

// OptionType is the semantic type that a recognized key is declared with.
type OptionType int

const (
	TypeString OptionType = iota + 1
	TypeInt
	TypeSDK
	TypeBool
	TypeBuildType
	TypeStringList
)

func (t OptionType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "integer"
	case TypeSDK:
		return "sdk version"
	case TypeBool:
		return "boolean"
	case TypeBuildType:
		return "build type"
	case TypeStringList:
		return "list of strings"
	}

	return "unknown"
}

// OptionTypes maps every recognized key to its declared type.
var OptionTypes = map[string]OptionType{
	KeyApplicationID:    TypeString,
	KeyNamespace:        TypeString,
	KeyMinSdk:           TypeSDK,
	KeyTargetSdk:        TypeSDK,
	KeyCompileSdk:       TypeSDK,
	KeyVersionCode:      TypeInt,
	KeyVersionName:      TypeString,
	KeyMinifyEnabled:    TypeBool,
	KeyShrinkResources:  TypeBool,
	KeySigningConfigRef: TypeString,
	KeyBuildType:        TypeBuildType,
	KeyJVMTarget:        TypeString,
	KeyProguardFiles:    TypeStringList,
}

// Options is the raw, unvalidated mapping of option keys to values
// as read from a file, flags or a request body.
type Options map[string]any

// Clone returns a shallow copy of o.
func (o Options) Clone() Options {
	c := make(Options, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

// Merge overlays each of srcs onto a copy of o. Later sources win.
func (o Options) Merge(srcs ...Options) Options {
	merged := o.Clone()
	for _, src := range srcs {
		for k, v := range src {
			merged[k] = v
		}
	}
	return merged
}

// UnknownKeys returns the sorted keys of o that are not recognized.
func UnknownKeys(o Options) []string {
	unknown := []string{}
	for k := range o {
		if _, ok := OptionTypes[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	slices.Sort(unknown)
	return unknown
}

// BuildType is the variant being described.
type BuildType string

const (
	BuildTypeDebug   BuildType = "debug"
	BuildTypeRelease BuildType = "release"
)

func toString(key string, raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	}

	return "", newConfigError(key, ErrTypeMismatch, "expected %s, got %T", TypeString, raw)
}

func toInt(key string, raw any) (int, error) {
	rv := reflect.ValueOf(raw)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt32 {
			return 0, newConfigError(key, ErrInvalidRange, "%d is too large", rv.Uint())
		}
		return int(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, newConfigError(key, ErrTypeMismatch, "expected %s, got %v", TypeInt, f)
		}
		return int(f), nil
	case reflect.String:
		i, err := strconv.Atoi(strings.TrimSpace(rv.String()))
		if err != nil {
			return 0, newConfigError(key, ErrTypeMismatch, "expected %s, got %q", TypeInt, rv.String())
		}
		return i, nil
	}

	return 0, newConfigError(key, ErrTypeMismatch, "expected %s, got %T", TypeInt, raw)
}

func toSDK(key string, raw any) (int, error) {
	if s, ok := raw.(string); ok {
		if level, ok := ParseAPILevel(s); ok {
			return level, nil
		}

		return 0, newConfigError(key, ErrTypeMismatch, "expected %s, got %q", TypeSDK, s)
	}

	return toInt(key, raw)
}

func toBool(key string, raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, newConfigError(key, ErrTypeMismatch, "expected %s, got %q", TypeBool, v)
		}
		return b, nil
	}

	return false, newConfigError(key, ErrTypeMismatch, "expected %s, got %T", TypeBool, raw)
}

func toBuildType(key string, raw any) (BuildType, error) {
	s, err := toString(key, raw)
	if err != nil {
		return "", err
	}

	switch bt := BuildType(strings.ToLower(s)); bt {
	case BuildTypeDebug, BuildTypeRelease:
		return bt, nil
	}

	return "", newConfigError(key, ErrInvalidValue, "%q is not one of %s, %s", s, BuildTypeDebug, BuildTypeRelease)
}

func toStringList(key string, raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return slices.Clone(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}, nil
		}

		list := []string{}
		for _, s := range strings.Split(v, ",") {
			list = append(list, strings.TrimSpace(s))
		}
		return list, nil
	case []any:
		list := make([]string, 0, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, newConfigError(key, ErrTypeMismatch, "element %d: expected %s, got %T", i, TypeString, e)
			}
			list = append(list, s)
		}
		return list, nil
	}

	return nil, newConfigError(key, ErrTypeMismatch, "expected %s, got %T", TypeStringList, raw)
}
