package main

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

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/authority"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/authz"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/config"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/country"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/event"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/field"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/item"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/router"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/token"
	tokenrepo "github.com/ovaphlow/pitchfork/service-pitchside/internal/token/repo"
	"github.com/ovaphlow/pitchfork/service-pitchside/internal/user"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/database"
	"github.com/ovaphlow/pitchfork/service-pitchside/pkg/utilities"
)

func newServeCmd(configPath *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return serve(cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides config")
	return cmd
}

func serve(cfg config.Config) error {
	lg, err := utilities.Init(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Infow("starting pitchside", "addr", cfg.Addr, "store", cfg.Store.Driver)

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.OpenStore(ctx, cfg.Store, sugar)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	handler, err := buildHandler(ctx, cfg, store, sugar)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	sugar.Info("service is running; press Ctrl+C to stop")

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	}

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
	return nil
}

func buildHandler(ctx context.Context, cfg config.Config, store database.Store, logger *zap.SugaredLogger) (http.Handler, error) {
	keys, err := signingKeys(cfg.JWT, logger)
	if err != nil {
		return nil, err
	}
	signer := token.NewSigner(keys, cfg.Issuer, nil)
	users := user.NewUserService(store, user.BcryptHasher{Cost: user.DefaultCost}, utilities.NewIDGenerator(cfg.SnowflakeNode))
	auth := authority.New(users, tokenrepo.NewTokenRepo(store), signer, logger)

	fields := field.NewService(store)
	events := event.NewService(store, fields, nil)
	if err := fields.Seed(ctx); err != nil {
		return nil, fmt.Errorf("seed fields: %w", err)
	}
	if err := events.Seed(ctx); err != nil {
		return nil, fmt.Errorf("seed events: %w", err)
	}

	countries, err := country.NewCountriesClient(cfg.CountriesAPIURL, nil)
	if err != nil {
		return nil, err
	}
	exchange, err := country.NewExchangeClient(cfg.CurrenciesAPIURL, nil)
	if err != nil {
		return nil, err
	}

	items := item.NewService(store, item.NewCipher(cfg.ItemKDF), logger)

	return router.RegisterRoutes(router.Deps{
		Logger:     logger,
		Auth:       auth,
		Gate:       authz.Gate(auth, logger),
		Events:     event.NewHandler(events, logger),
		Fields:     field.NewHandler(fields, logger),
		Country:    country.NewHandler(countries, exchange, cfg.CurrencyBase, cfg.ProxyLimit, logger),
		Items:      item.NewHandler(items, logger),
		Keys:       token.NewHandler(signer),
		CORSOrigin: cfg.CORSOrigin,
	}), nil
}

// signingKeys loads the configured key pair, or generates a throwaway one
// when none is configured. Tokens signed with a throwaway key stop verifying
// after a restart.
func signingKeys(j config.JWTConfig, logger *zap.SugaredLogger) (*token.Keys, error) {
	if j.HasSigningKey() {
		keys, err := j.Keys()
		if err != nil {
			return nil, fmt.Errorf("load signing key: %w", err)
		}
		return keys, nil
	}
	logger.Warn("no JWT key configured, generating an ephemeral key; run `pitchside keygen` for a persistent one")
	return token.GenerateKeys(2048)
}
