package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/config"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/scheduler"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/wiring"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	once := pflag.Bool("once", false, "run a single offline sweep and exit")
	pflag.Duration("interval", 0, "sweep interval (overrides SWEEP_INTERVAL)")
	pflag.Parse()

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if f := pflag.Lookup("interval"); f.Changed {
		if err := viper.BindPFlag("SWEEP_INTERVAL", f); err != nil {
			log.Fatal().Err(err).Msg("bind interval flag")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := wiring.Build(ctx, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("wiring failed")
	}
	defer env.Close()

	runner := scheduler.NewRunner(env.Services.Monitor, env.Lock, config.SweepInterval(), log.Logger)
	if *once {
		res, ran, err := runner.RunOnce(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("offline sweep failed")
		}
		log.Info().Bool("ran", ran).Int("created", res.Created).Int("touched", res.Touched).Msg("offline check done")
		return
	}

	log.Info().Dur("interval", config.SweepInterval()).Msg("monitor running; Ctrl+C to stop")
	runner.Start(ctx)
}
