package command

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/frantjc/apkcfg"
	"github.com/frantjc/apkcfg/apktool"
	"github.com/frantjc/apkcfg/buildfile"
	xslice "github.com/frantjc/x/slice"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	OutputJSON    = "json"
	OutputYAML    = "yaml"
	OutputAPKTool = "apktool"
)

// SetCommon sets up logging, version and error
// handling shared by every apkcfg command.
func SetCommon(cmd *cobra.Command, version string) *cobra.Command {
	var verbosity int
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "V", fmt.Sprintf("Verbosity for %s.", cmd.Name()))
	cmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if verbose := os.Getenv("APKCFG_VERBOSE"); verbose != "" && xslice.Includes([]string{"1", "y", "yes", "true", "t"}, strings.ToLower(verbose)) && verbosity < 2 {
			verbosity = 2
		}

		cmd.SetContext(apkcfg.WithLogger(cmd.Context(), apkcfg.NewLogger(cmd.ErrOrStderr(), verbosity)))
	}

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cmd.Version = version
	cmd.SetVersionTemplate("{{ .Name }}{{ .Version }} " + runtime.Version() + "\n")

	return cmd
}

// resolveFlags are the flags shared by every
// command that resolves a BuildDescriptor.
type resolveFlags struct {
	files      []string
	set        map[string]string
	strict     bool
	minSdk     int
	targetSdk  int
	compileSdk int
}

func (f *resolveFlags) addFlags(cmd *cobra.Command) {
	platform := apkcfg.DefaultPlatform()

	cmd.Flags().StringArrayVarP(&f.files, "file", "f", nil, "Option file (.yaml, .yml, .json, .hcl or apktool.yml). May be repeated; later files win.")
	cmd.Flags().StringToStringVar(&f.set, "set", nil, "Option overrides as key=value. Win over files.")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Treat unknown option keys as errors.")
	cmd.Flags().IntVar(&f.minSdk, "min-sdk-default", platform.MinSdk, "minSdk when not set.")
	cmd.Flags().IntVar(&f.targetSdk, "target-sdk-default", platform.TargetSdk, "targetSdk when not set.")
	cmd.Flags().IntVar(&f.compileSdk, "compile-sdk-default", platform.CompileSdk, "compileSdk when not set.")
}

func (f *resolveFlags) resolver(file *buildfile.File) *apkcfg.Resolver {
	platform := apkcfg.DefaultPlatform()
	platform.MinSdk = f.minSdk
	platform.TargetSdk = f.targetSdk
	platform.CompileSdk = f.compileSdk

	signingConfigs := apkcfg.DefaultSigningConfigs()
	if file != nil {
		signingConfigs = file.Register(signingConfigs)
	}

	return apkcfg.NewResolver(
		apkcfg.WithPlatform(platform),
		apkcfg.WithSigningConfigs(signingConfigs),
		apkcfg.WithStrict(f.strict),
	)
}

func (f *resolveFlags) overrides() apkcfg.Options {
	opts := apkcfg.Options{}
	for k, v := range f.set {
		opts[k] = v
	}
	return opts
}

// load reads every --file, applies every --set and
// returns the options along with a resolver for them.
func (f *resolveFlags) load(cmd *cobra.Command) (apkcfg.Options, *apkcfg.Resolver, error) {
	log := apkcfg.LoggerFrom(cmd.Context())

	for _, name := range f.files {
		log.V(1).Info("loading " + name)
	}

	file, err := buildfile.LoadAll(f.files...)
	if err != nil {
		return nil, nil, err
	}

	opts := file.Options.Merge(f.overrides())

	if unknown := apkcfg.UnknownKeys(opts); len(unknown) > 0 && !f.strict {
		log.Info("ignoring unknown options", "keys", strings.Join(unknown, ","))
	}

	return opts, f.resolver(file), nil
}

func encode(w io.Writer, output string, a any) error {
	switch output {
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(a); err != nil {
			return err
		}
		return enc.Close()
	case OutputJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}

	return fmt.Errorf("unknown output format %s", output)
}

func encodeDescriptor(w io.Writer, output string, d apkcfg.BuildDescriptor) error {
	if output == OutputAPKTool {
		return encode(w, OutputYAML, apktool.NewMetadata(d))
	}

	return encode(w, output, d)
}
