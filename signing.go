package apkcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// SigningConfig is a named credential set used to sign an artifact.
type SigningConfig struct {
	Name          string `json:"name" yaml:"name"`
	StoreFile     string `json:"storeFile,omitempty" yaml:"storeFile,omitempty"`
	StorePassword string `json:"-" yaml:"storePassword,omitempty"`
	KeyAlias      string `json:"keyAlias,omitempty" yaml:"keyAlias,omitempty"`
	KeyPassword   string `json:"-" yaml:"keyPassword,omitempty"`
}

// SigningConfigs is the set of signing configs that a
// signingConfigRef may be resolved against, keyed by name.
type SigningConfigs map[string]SigningConfig

// Names returns the sorted names of the registered signing configs.
func (s SigningConfigs) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// With returns a copy of s with each of configs registered,
// replacing any existing config of the same name.
func (s SigningConfigs) With(configs ...SigningConfig) SigningConfigs {
	c := make(SigningConfigs, len(s)+len(configs))
	for name, sc := range s {
		c[name] = sc
	}
	for _, sc := range configs {
		c[sc.Name] = sc
	}
	return c
}

// DebugSigningConfig is the well-known debug keystore generated by
// the Android SDK. StoreFile is left empty so that resolving against it
// does not read the environment; see Keystore.
func DebugSigningConfig() SigningConfig {
	return SigningConfig{
		Name:          DefaultSigningRef,
		StorePassword: "android",
		KeyAlias:      "androiddebugkey",
		KeyPassword:   "android",
	}
}

// DebugKeystore returns the path that the Android SDK
// generates the debug keystore at, ~/.android/debug.keystore.
func DebugKeystore() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate debug keystore: %w", err)
	}

	return filepath.Join(home, ".android", "debug.keystore"), nil
}

// Keystore returns sc's StoreFile, falling back to
// DebugKeystore for the debug signing config.
func (sc SigningConfig) Keystore() (string, error) {
	if sc.StoreFile != "" {
		return sc.StoreFile, nil
	} else if sc.Name == DefaultSigningRef {
		return DebugKeystore()
	}

	return "", fmt.Errorf("signing config %s has no store file", sc.Name)
}

func DefaultSigningConfigs() SigningConfigs {
	return SigningConfigs{}.With(DebugSigningConfig())
}
