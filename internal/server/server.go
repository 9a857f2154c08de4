package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"github.com/twels/front/internal/config"
	"github.com/twels/front/internal/ocr"
	"github.com/twels/front/internal/querycodec"
	"github.com/twels/front/internal/search"
	"github.com/twels/front/internal/store"
	"github.com/twels/front/internal/upload"
	"github.com/twels/front/internal/urlparam"
)

type searcher interface {
	Enabled() bool
	Search(ctx context.Context, r search.Request) (search.Response, error)
}

type recognizer interface {
	Recognize(ctx context.Context, image []byte, contentType string) (string, bool, error)
}

type stateStore struct {
	cfg       config.File
	db        *store.Store
	search    searcher
	ocr       recognizer
	allow     *upload.Allowlist
	variant   querycodec.Variant
	paramOpts urlparam.Options
}

func newStateStore(cfg config.File, db *store.Store) (*stateStore, error) {
	variant, err := querycodec.ParseVariant(cfg.Codec.Variant)
	if err != nil {
		return nil, err
	}
	allow, err := upload.NewAllowlist(cfg.Upload.Allowed)
	if err != nil {
		return nil, err
	}
	return &stateStore{
		cfg:       cfg,
		db:        db,
		search:    search.NewClient(cfg.Search.BackendURL, time.Duration(cfg.Search.TimeoutSeconds)*time.Second),
		ocr:       ocr.NewClient(cfg.OCR.Endpoint, cfg.OCR.AppID, cfg.OCR.AppKey, time.Duration(cfg.OCR.TimeoutSeconds)*time.Second),
		allow:     allow,
		variant:   variant,
		paramOpts: paramOptions(cfg.Codec, variant),
	}, nil
}

func paramOptions(c config.Codec, variant querycodec.Variant) urlparam.Options {
	opts := urlparam.Options{AllowMissingValue: c.AllowMissingValue}
	switch {
	case variant == querycodec.V1:
		opts.Revision = urlparam.RevisionHiddenForm
	case c.PlainQuery:
		opts.Revision = urlparam.RevisionPlain
	default:
		opts.Revision = urlparam.RevisionPlusSeparator
	}
	return opts
}

func loadConfig() (config.File, error) {
	cfg := config.Default()
	if path := strings.TrimSpace(os.Getenv("TWELS_CONFIG")); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.File{}, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(os.Getenv)
	if errs := cfg.Validate(); len(errs) > 0 {
		return config.File{}, fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func Run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	s, err := newStateStore(cfg, db)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           buildRouter(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopMDNS := func() {}
	if cfg.MDNS.Enabled {
		stopMDNS = startMDNSAdvertiser(cfg.Server.Addr, cfg.MDNS.Instance)
	}
	defer stopMDNS()

	var grpcSrv *grpc.Server
	var grpcHealth *health.Server
	errCh := make(chan error, 2)
	if addr := strings.TrimSpace(cfg.Server.GRPCAddr); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen grpc: %w", err)
		}
		grpcSrv, grpcHealth = newGRPCServer()
		go func() {
			slog.Info("twels grpc started", "addr", addr)
			if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- fmt.Errorf("serve grpc: %w", err)
			}
		}()
	}

	go func() {
		slog.Info("twels front started", "addr", cfg.Server.Addr, "codec", s.variant.String(), "search_backend", cfg.Search.BackendURL)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if grpcSrv != nil {
			grpcHealth.Shutdown()
			grpcSrv.GracefulStop()
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		slog.Info("twels front stopped")
		return nil
	case err := <-errCh:
		if grpcSrv != nil {
			grpcSrv.Stop()
		}
		if err != nil {
			return err
		}
		slog.Info("twels front stopped")
		return nil
	}
}
