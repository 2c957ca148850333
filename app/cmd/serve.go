package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/configs"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/logger"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/middlewares"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/routes"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/services/cache"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/utils/format"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/utils/renderer"
	"github.com/KINGDEMON6700/PRYCESOURCE-sub000/app/utils/sessions"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the HTTP server until ctx is cancelled or the process receives
// SIGINT/SIGTERM.
func Serve(ctx context.Context, env configs.ENV, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := configs.OpenConnection(env, log)
	if err != nil {
		return err
	}
	log.Info("Database connected", "driver", env.DBDriver)

	keys, err := configs.LoadSessionKeys(env)
	if err != nil {
		return err
	}
	sessionStore := sessions.NewCookieSessionStore(env.IsProduction(), keys.AuthKey, keys.EncKey)
	log.Info("Session store initialized")

	comparisonCache := cache.NewNoop()
	if env.RedisAddr != "" {
		comparisonCache, err = cache.NewRedis(log, cache.RedisOptions{
			Addr:     env.RedisAddr,
			Password: env.RedisPassword,
			DB:       env.RedisDB,
			TTL:      env.ComparisonCacheTTL,
		})
		if err != nil {
			return err
		}
		log.Info("Comparison cache backed by redis", "addr", env.RedisAddr)
	}

	router := routes.NewRouter(routes.Config{
		DB:          db,
		Cache:       comparisonCache,
		Sessions:    sessionStore,
		Log:         log,
		Money:       format.NewMoney(env.CurrencySymbol),
		Development: !env.IsProduction(),
	})

	var handler http.Handler = router
	csrfKey, err := configs.CSRFKeyBytes(env)
	if err != nil {
		return err
	}
	if csrfKey != nil {
		handler = middlewares.CSRF(csrfKey, env.IsProduction(), renderer.New(false), log)(router)
		log.Info("CSRF protection enabled")
	} else {
		log.Warn("CSRF_KEY not set, CSRF protection disabled")
	}

	server := &http.Server{
		Addr:              env.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
