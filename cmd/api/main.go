package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/questbay/questbay/internal/auth"
	"github.com/questbay/questbay/internal/config"
	"github.com/questbay/questbay/internal/deal"
	"github.com/questbay/questbay/internal/httpapi"
	"github.com/questbay/questbay/internal/listing"
	"github.com/questbay/questbay/internal/review"
	"github.com/questbay/questbay/internal/store/postgres"
	"github.com/questbay/questbay/internal/user"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to postgres")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping postgres")
	}

	st := postgres.New(pool)
	if err := st.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("init schema")
	}
	if cfg.SeedDemoData {
		if err := st.Seed(ctx); err != nil {
			log.Fatal().Err(err).Msg("seed demo data")
		}
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := auth.NewService(st, cfg.BotToken, tokens)
	authH := auth.NewHandler(authSvc, st, log)
	listingH := listing.NewHandler(listing.NewService(st), st, log)
	dealH := deal.NewHandler(deal.NewService(st), log)
	reviewH := review.NewHandler(review.NewService(st), log)
	userH := user.NewHandler(user.NewService(st), log)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(httpapi.RequestLogger(log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, auth.HeaderTelegramData},
	}))

	api := e.Group("/api/v1")
	api.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	api.POST("/auth/telegram", authH.Login)

	// Storefront reads are public, same as the original mini-app.
	api.GET("/accounts", listingH.List)
	api.GET("/accounts/:id", listingH.Get)

	g := api.Group("")
	g.Use(auth.Require(authSvc, tokens, log))

	g.GET("/me", authH.Me)

	g.POST("/accounts", listingH.Create)
	g.PATCH("/accounts/:id", listingH.Update)
	g.DELETE("/accounts/:id", listingH.Delete)

	g.GET("/deals", dealH.List)
	g.GET("/deals/:id", dealH.Get)
	g.POST("/deals", dealH.Create)
	g.PUT("/deals/:id", dealH.Update)

	g.POST("/deals/:id/reviews", reviewH.Create)
	g.GET("/deals/:id/review", reviewH.GetByDeal)
	g.PUT("/deals/:id/review", reviewH.Update)

	g.GET("/users", userH.List)
	g.GET("/users/telegram/:telegram_id", userH.GetByTelegramID)
	g.GET("/users/:id", userH.Get)
	g.PATCH("/users/:id", userH.Update)
	g.DELETE("/users/:id", userH.Delete)

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("API server listening")
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
