package command

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/frantjc/apkcfg"
	"github.com/frantjc/apkcfg/internal/apkcfghttp"
	"github.com/spf13/cobra"
)

// NewServe returns the command which acts as
// the entrypoint for `apkcfg serve`.
func NewServe() *cobra.Command {
	var (
		flags   = &resolveFlags{}
		address string
		cmd     = &cobra.Command{
			Use:   "serve",
			Short: "Serve the resolver over HTTP",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				var (
					ctx = cmd.Context()
					log = apkcfg.LoggerFrom(ctx)
				)

				// Signing configs declared in --file are registered
				// for every request; its options are not used.
				_, resolver, err := flags.load(cmd)
				if err != nil {
					return err
				}

				var (
					srv = &http.Server{
						ReadHeaderTimeout: time.Second * 5,
						BaseContext: func(_ net.Listener) context.Context {
							return ctx
						},
						Handler: apkcfghttp.NewHandler(resolver),
					}
					errC = make(chan error, 1)
				)
				defer srv.Close()

				lis, err := net.Listen("tcp", address)
				if err != nil {
					return err
				}
				defer lis.Close()

				go func() {
					log.Info("listening on " + address)
					errC <- srv.Serve(lis)
				}()

				select {
				case <-ctx.Done():
					shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second*10)
					defer cancel()

					if err := srv.Shutdown(shutdownCtx); err != nil {
						return err
					}

					return ctx.Err()
				case err := <-errC:
					if errors.Is(err, http.ErrServerClosed) {
						return nil
					}

					return err
				}
			},
		}
	)

	flags.addFlags(cmd)
	cmd.Flags().StringVar(&address, "addr", ":8080", "Listen address.")

	return cmd
}
