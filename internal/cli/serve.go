package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"assessrec/internal/adapter/fs"
	"assessrec/internal/httpapi"
)

var (
	serveAddr     string
	serveWatch    bool
	serveDebounce time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recommendations over HTTP",
	Long: `Start the HTTP API. The catalogue loads in the background; /health answers
503 until the engine is ready.

Endpoints:
  GET  /health      {"status":"healthy"} or {"status":"initializing"}
  POST /recommend   {"query": "...", "skills": "...", "top_k": 10}
  GET  /stats       engine and cache details

Examples:
  assessrec serve
  assessrec serve --addr :9000 --watch`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload when catalogue files change")
	serveCmd.Flags().DurationVar(&serveDebounce, "debounce", 500*time.Millisecond, "quiet period before a reload")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	root := GetRootDir()
	log := GetLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService(ctx, cfg, root, serviceOptions{queryCache: true})
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	srv := &http.Server{
		Addr: addr,
		Handler: httpapi.NewHandler(httpapi.Deps{
			Recommender: svc,
			DefaultTopK: cfg.Rank.TopK,
			Stats:       svc.Stats,
			Files:       svc.Files,
			Log:         log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// A missing catalogue leaves the server up and not ready.
	g.Go(func() error {
		stats, err := svc.Load(ctx)
		if err != nil {
			log.Error("catalogue load failed, serving not-ready", zap.Error(err))
			return nil
		}
		log.Info("engine ready",
			zap.Int("entries", stats.Entries),
			zap.String("model", stats.Model),
			zap.Bool("from_cache", stats.FromCache),
		)
		return nil
	})

	if serveWatch || cfg.Server.Watch {
		w, err := fs.NewWatcher(fs.NewMatcher(root, cfg.Catalogue.Paths), serveDebounce, log)
		if err != nil {
			return fmt.Errorf("failed to watch catalogue: %w", err)
		}
		defer w.Close()
		g.Go(func() error {
			return w.Run(ctx, func() {
				_ = svc.Reload(ctx)
			})
		})
	}

	return g.Wait()
}
