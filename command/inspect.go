package command

import (
	"fmt"

	"github.com/frantjc/apkcfg"
	"github.com/frantjc/apkcfg/android"
	"github.com/frantjc/apkcfg/internal/apkcfgregexp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// inspection is what `apkcfg inspect` reports for a single .apk.
type inspection struct {
	Name        string                 `json:"name" yaml:"name"`
	Options     apkcfg.Options         `json:"options" yaml:"options"`
	Descriptor  apkcfg.BuildDescriptor `json:"descriptor" yaml:"descriptor"`
	Digest      string                 `json:"digest" yaml:"digest"`
	Fingerprint string                 `json:"sha256CertFingerprint,omitempty" yaml:"sha256CertFingerprint,omitempty"`
}

// NewInspect returns the command which acts as
// the entrypoint for `apkcfg inspect`.
func NewInspect() *cobra.Command {
	var (
		flags       = &resolveFlags{}
		output      string
		apktool     string
		keytool     string
		fingerprint bool
		cmd         = &cobra.Command{
			Use:   "inspect APK...",
			Short: "Recover the build descriptor that .apk files were built with",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var (
					ctx         = cmd.Context()
					log         = apkcfg.LoggerFrom(ctx)
					eg, egctx   = errgroup.WithContext(ctx)
					inspections = make([]inspection, len(args))
				)

				for _, name := range args {
					if !apkcfgregexp.IsAPK(name) {
						return fmt.Errorf("%s is not an .apk", name)
					}
				}

				overrides, resolver, err := flags.load(cmd)
				if err != nil {
					return err
				}

				for i, name := range args {
					eg.Go(func() error {
						decoder := android.NewAPKDecoder(name,
							android.WithAPKTool(apktool),
							android.WithKeytool(keytool),
						)
						defer decoder.Close()

						log.Info("decoding " + name)

						opts, err := decoder.Options(egctx)
						if err != nil {
							return fmt.Errorf("decode %s: %w", name, err)
						}

						d, err := resolver.Resolve(opts.Merge(overrides))
						if err != nil {
							return fmt.Errorf("resolve %s: %w", name, err)
						}

						inspections[i] = inspection{
							Name:       name,
							Options:    opts,
							Descriptor: d,
							Digest:     d.Digest().String(),
						}

						if fingerprint {
							if inspections[i].Fingerprint, err = decoder.SHA256CertFingerprints(egctx); err != nil {
								return fmt.Errorf("fingerprint %s: %w", name, err)
							}
						}

						return nil
					})
				}

				if err := eg.Wait(); err != nil {
					return err
				}

				if len(inspections) == 1 {
					return encode(cmd.OutOrStdout(), output, inspections[0])
				}

				return encode(cmd.OutOrStdout(), output, inspections)
			},
		}
	)

	flags.addFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", OutputYAML, "Output format: json or yaml.")
	cmd.Flags().StringVar(&apktool, "apktool", "apktool", "Path to apktool.")
	cmd.Flags().StringVar(&keytool, "keytool", "keytool", "Path to keytool.")
	cmd.Flags().BoolVar(&fingerprint, "fingerprint", false, "Also report the SHA-256 fingerprint of the signing certificate.")

	return cmd
}
