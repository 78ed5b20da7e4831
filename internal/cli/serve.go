// internal/cli/serve.go
//
// serve 子命令：以 chi 路由提供 HTTP API，收到 SIGINT/SIGTERM 後在期限內優雅關閉。

package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"banking/internal/server"
)

// newServeCmd 建立 serve 子命令；--addr 優先於 BANK_HTTP_ADDR。
func newServeCmd(f *rootFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, f, "")
			if err != nil {
				return err
			}
			defer func() { _ = a.cleanup() }()

			if cmd.Flags().Changed("addr") {
				a.cfg.HTTPAddr = addr
			}

			opts := []server.Option{server.WithLogger(a.log)}
			if a.cfg.MetricsEnabled {
				opts = append(opts, server.WithMetrics(a.metrics, a.registry))
			}
			srv := &http.Server{
				Addr:              a.cfg.HTTPAddr,
				Handler:           server.NewServer(a.bank, opts...).Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a, srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides BANK_HTTP_ADDR)")
	return cmd
}

// serve 執行 srv 直到 ctx 取消，再以 ShutdownTimeout 為期限關閉。
// 監聽失敗（例如位址被占用）時直接回傳錯誤。
func serve(ctx context.Context, a *app, srv *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("http.listening", "addr", srv.Addr, "metrics", a.cfg.MetricsEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("http.shutting_down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
