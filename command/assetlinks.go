package command

import (
	"fmt"

	"github.com/frantjc/apkcfg"
	"github.com/frantjc/apkcfg/android"
	"github.com/frantjc/apkcfg/internal/apkcfgblob"
	"github.com/frantjc/apkcfg/internal/apkcfgregexp"
	"github.com/frantjc/apkcfg/keytool"
	"github.com/spf13/cobra"
	"gocloud.dev/blob"
)

// NewAssetLinks returns the command which acts as
// the entrypoint for `apkcfg assetlinks`.
func NewAssetLinks() *cobra.Command {
	var (
		flags        = &resolveFlags{}
		fingerprints []string
		keytoolPath  string
		loginCreds   bool
		bloburlstr   string
		cmd          = &cobra.Command{
			Use:   "assetlinks",
			Short: "Print the Digital Asset Links statement for a resolved app",
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

				for _, fingerprint := range fingerprints {
					if !apkcfgregexp.IsSHA256Fingerprint(fingerprint) {
						return fmt.Errorf("invalid SHA-256 fingerprint %s", fingerprint)
					}
				}

				if len(fingerprints) == 0 {
					sc := resolver.EffectiveSigningConfigs()[d.SigningConfigRef]

					log.Info("reading fingerprint from signing config " + sc.Name)

					fingerprint, err := keytool.Command(keytoolPath).KeystoreFingerprint(ctx, sc)
					if err != nil {
						return err
					}

					fingerprints = append(fingerprints, fingerprint)
				}

				assetLink := android.NewAssetLink(d, fingerprints...)
				if loginCreds {
					assetLink.Relation = append(assetLink.Relation, android.RelationGetLoginCreds)
				}
				assetLinks := []android.AssetLink{assetLink}

				if bloburlstr != "" {
					bucket, err := blob.OpenBucket(ctx, bloburlstr)
					if err != nil {
						return err
					}
					defer bucket.Close()

					key := apkcfgblob.AssetLinksKey(d)
					if err := apkcfgblob.WriteJSON(ctx, bucket, key, assetLinks); err != nil {
						return err
					}

					log.Info("wrote asset links", "key", key)
				}

				return encode(cmd.OutOrStdout(), OutputJSON, assetLinks)
			},
		}
	)

	flags.addFlags(cmd)
	cmd.Flags().StringArrayVar(&fingerprints, "fingerprint", nil, "SHA-256 certificate fingerprint. Read from the resolved signing config's keystore when omitted.")
	cmd.Flags().StringVar(&keytoolPath, "keytool", "keytool", "Path to keytool.")
	cmd.Flags().BoolVar(&loginCreds, "login-creds", false, "Also grant "+android.RelationGetLoginCreds+".")
	cmd.Flags().StringVar(&bloburlstr, "blob", "", "Bucket URL to also write the statement to.")

	return cmd
}
