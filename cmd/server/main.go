package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lancer-be/internal/auth"
	"lancer-be/internal/config"
	"lancer-be/internal/db"
	"lancer-be/internal/logger"
	"lancer-be/internal/metrics"
	"lancer-be/internal/middleware"
	"lancer-be/internal/notification"
	"lancer-be/internal/payment"
	"lancer-be/internal/payment/webhook"
	"lancer-be/internal/transport"
	"lancer-be/internal/user"
	"lancer-be/internal/wallet"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	initDBFunc      = db.NewDatabase
	connectNATSFunc = notification.Connect
	startServerFunc = startServer
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("Server stopped", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := initDBFunc(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	var publisher notification.Publisher = notification.NopPublisher{}
	if cfg.NatsURL != "" {
		publisher, err = connectNATSFunc(cfg.NatsURL)
		if err != nil {
			return err
		}
	}
	defer publisher.Close()

	router, err := newServer(ctx, cfg, database, publisher)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.L().Info("Server starting",
		zap.String("addr", srv.Addr),
		zap.String("env", cfg.AppEnv),
		zap.String("payment_mode", cfg.PaymentMode),
	)
	return startServerFunc(ctx, srv)
}

// newServer wires repositories, services and handlers for one database.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB, publisher notification.Publisher) (http.Handler, error) {
	hashCase, err := payment.ParseHashCase(cfg.HashCase)
	if err != nil {
		return nil, err
	}
	signer, err := payment.NewSigner(hashCase)
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokens(cfg.JWTSecret, auth.DefaultTokenTTL)
	if err != nil {
		return nil, err
	}

	merchant := payment.Merchant{
		ID:          cfg.MerchantID,
		Digest:      signer.ComputeMerchantSecretDigest(cfg.MerchantSecret),
		Currency:    cfg.DefaultCurrency,
		CheckoutURL: cfg.CheckoutURL(),
		URLs: payment.CallbackURLs{
			ReturnURL: cfg.ReturnURL,
			CancelURL: cfg.CancelURL,
			NotifyURL: cfg.NotifyURL,
		},
	}

	walletSvc := wallet.NewService(wallet.NewRepository(database), cfg.DefaultCurrency)
	paymentSvc := payment.NewService(payment.NewRepository(database), walletSvc, publisher, signer, merchant)

	webhookMetrics := metrics.NewWebhook()
	webhookHandler := webhook.NewWebhookHandler(paymentSvc, webhookMetrics)
	api := transport.NewHandler(paymentSvc, walletSvc, webhookMetrics)

	userSvc := user.NewService(user.NewRepository(database), tokens)
	authHandler := transport.NewAuthHandler(userSvc, cfg.IsProduction())

	limiter := middleware.NewRateLimiter(ctx, cfg.InternalKey, "/webhook/payment", "/payments/checkout", "/auth/")
	authn := middleware.NewAuthenticator(tokens)

	return setupRouter(api, authHandler, webhookHandler.PaymentWebhookHandler, authn, limiter), nil
}

func setupRouter(
	api *transport.Handler,
	authHandler *transport.AuthHandler,
	webhookHandler http.HandlerFunc,
	authn *middleware.Authenticator,
	limiter *middleware.RateLimiter,
) http.Handler {
	r := chi.NewRouter()
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(chimw.Recoverer)

	r.Get("/health", api.Health)
	r.Get("/metrics", api.Metrics)

	// The gateway does not authenticate; the notification signature does.
	r.With(limiter.Middleware).Post("/webhook/payment", webhookHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(authn.Middleware)
		r.Use(limiter.Middleware)
		r.Use(middleware.RequireUser)

		r.Post("/payments/checkout", api.Checkout)
		r.Post("/payments/checkout/form", api.CheckoutForm)
		r.Get("/payments/{orderID}", api.GetPayment)
		r.Get("/wallet", api.Wallet)
	})

	return r
}

// startServer serves until ctx is cancelled, then drains in-flight requests.
func startServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.L().Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
