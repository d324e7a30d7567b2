package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/config"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/service"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/wiring"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// handleTimeout bounds one message's store work.
const handleTimeout = 10 * time.Second

func main() {
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
	svcs := env.Services

	opts := mqtt.NewClientOptions().
		AddBroker(config.MQTTBroker()).
		SetClientID(config.MQTTClientID()).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	ingest := func(kind string, fn func(context.Context, []byte) (service.IngestResult, error)) mqtt.MessageHandler {
		return func(_ mqtt.Client, msg mqtt.Message) {
			mctx, cancel := context.WithTimeout(ctx, handleTimeout)
			defer cancel()
			res, err := fn(mctx, msg.Payload())
			if err != nil {
				log.Error().Err(err).Str("kind", kind).Str("topic", msg.Topic()).Msg("ingest failed")
				return
			}
			ev := log.Info()
			if len(res.Rejected) > 0 {
				ev = log.Warn().Interface("rejected", res.Rejected)
			}
			ev.Str("kind", kind).Int("received", res.Received).Int("inserted", res.Inserted).
				Int("skipped", res.Skipped).Msg("batch ingested")
		}
	}

	subs := map[string]mqtt.MessageHandler{
		config.MQTTTelemetryTopic(): ingest("telemetry", svcs.Telemetry.FromMQTT),
		config.MQTTOccupancyTopic(): ingest("occupancy", svcs.Occupancy.FromMQTT),
	}
	for topic, handler := range subs {
		if token := client.Subscribe(topic, 1, handler); token.Wait() && token.Error() != nil {
			log.Fatal().Err(token.Error()).Str("topic", topic).Msg("subscribe failed")
		}
	}

	log.Info().Msg("ingestor running; Ctrl+C to stop")
	<-ctx.Done()
}
