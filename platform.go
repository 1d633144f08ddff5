package apkcfg

// Platform holds the process-wide defaults that a build would otherwise
// pick up from the surrounding SDK, passed explicitly to a Resolver.
type Platform struct {
	MinSdk           int    `json:"minSdk" yaml:"minSdk"`
	TargetSdk        int    `json:"targetSdk" yaml:"targetSdk"`
	CompileSdk       int    `json:"compileSdk" yaml:"compileSdk"`
	VersionCode      int    `json:"versionCode" yaml:"versionCode"`
	SigningConfigRef string `json:"signingConfigRef" yaml:"signingConfigRef"`
}

const (
	DefaultMinSdk     = 21
	CurrentSdk        = 36
	DefaultJVMTarget  = "11"
	DefaultSigningRef = "debug"
)

// DefaultProguardFiles are used when minification is enabled
// and no proguardFiles option is given.
var DefaultProguardFiles = []string{
	"proguard-android-optimize.txt",
	"proguard-rules.pro",
}

func DefaultPlatform() Platform {
	return Platform{
		MinSdk:           DefaultMinSdk,
		TargetSdk:        CurrentSdk,
		CompileSdk:       CurrentSdk,
		VersionCode:      1,
		SigningConfigRef: DefaultSigningRef,
	}
}

// PlatformStatus describes how a remote Resolver is configured.
type PlatformStatus struct {
	Platform       `json:",inline" yaml:",inline"`
	SigningConfigs []string `json:"signingConfigs" yaml:"signingConfigs"`
	Strict         bool     `json:"strict" yaml:"strict"`
}
