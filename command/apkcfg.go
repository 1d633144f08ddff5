package command

import (
	"github.com/frantjc/apkcfg"
	"github.com/frantjc/apkcfg/internal/apkcfgblob"
	"github.com/spf13/cobra"
	"gocloud.dev/blob"
)

// NewAPKCfg returns the root command for
// apkcfg which acts as its CLI entrypoint.
func NewAPKCfg() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apkcfg",
		Short: "Resolve Android build options into a validated build descriptor",
	}

	cmd.AddCommand(
		NewResolve(),
		NewDefaults(),
		NewInspect(),
		NewAssetLinks(),
		NewServe(),
	)

	return cmd
}

// NewResolve returns the command which acts as
// the entrypoint for `apkcfg resolve`.
func NewResolve() *cobra.Command {
	var (
		flags      = &resolveFlags{}
		output     string
		bloburlstr string
		cmd        = &cobra.Command{
			Use:   "resolve",
			Short: "Resolve options into a build descriptor",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				var (
					ctx = cmd.Context()
					log = apkcfg.LoggerFrom(ctx)
				)

				opts, resolver, err := flags.load(cmd)
				if err != nil {
					return err
				}

				d, err := resolver.Resolve(opts)
				if err != nil {
					return err
				}

				log.V(1).Info("resolved descriptor", "digest", d.Digest().String())

				if bloburlstr != "" {
					log.Info("opening bucket " + bloburlstr)
					bucket, err := blob.OpenBucket(ctx, bloburlstr)
					if err != nil {
						return err
					}
					defer bucket.Close()

					key, err := apkcfgblob.WriteDescriptor(ctx, bucket, d)
					if err != nil {
						return err
					}

					log.Info("wrote descriptor", "key", key)
				}

				return encodeDescriptor(cmd.OutOrStdout(), output, d)
			},
		}
	)

	flags.addFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", OutputJSON, "Output format: json, yaml or apktool.")
	cmd.Flags().StringVar(&bloburlstr, "blob", "", "Bucket URL to also write the descriptor to, e.g. file:///tmp/descriptors.")

	return cmd
}

// NewDefaults returns the command which acts as
// the entrypoint for `apkcfg defaults`.
func NewDefaults() *cobra.Command {
	var (
		flags  = &resolveFlags{}
		output string
		cmd    = &cobra.Command{
			Use:   "defaults",
			Short: "Print the defaults that omitted options fall back to",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, resolver, err := flags.load(cmd)
				if err != nil {
					return err
				}

				return encode(cmd.OutOrStdout(), output, &apkcfg.PlatformStatus{
					Platform:       resolver.EffectivePlatform(),
					SigningConfigs: resolver.EffectiveSigningConfigs().Names(),
					Strict:         resolver.Strict,
				})
			},
		}
	)

	flags.addFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", OutputYAML, "Output format: json or yaml.")

	return cmd
}
