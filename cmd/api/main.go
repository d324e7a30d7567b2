package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/config"
	httpHandlers "github.com/ANIKETSHETTY47/smart-parking-management-system/internal/http"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/scheduler"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/wiring"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := wiring.Build(ctx, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("wiring failed")
	}
	defer env.Close()

	if config.SweepEnabled() {
		runner := scheduler.NewRunner(env.Services.Monitor, env.Lock, config.SweepInterval(), log.Logger)
		go runner.Start(ctx)
		log.Info().Dur("interval", config.SweepInterval()).Msg("offline sweep scheduled")
	}

	app := fiber.New()
	app.Use(recover.New())
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	httpHandlers.Register(app, env.Services)

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	addr := config.APIAddr()
	if addr == "" {
		addr = ":8080"
	}
	log.Info().Str("addr", addr).Str("store", config.StoreDriver()).Msg("api listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}
