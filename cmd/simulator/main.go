package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/config"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

type Reading struct {
	DeviceCode  string    `json:"device_code"`
	Timestamp   time.Time `json:"timestamp"`
	Voltage     float64   `json:"voltage"`
	Current     float64   `json:"current"`
	PowerFactor float64   `json:"power_factor"`
}

type ParkingEvent struct {
	DeviceCode string    `json:"device_code"`
	IsOccupied bool      `json:"is_occupied"`
	Timestamp  time.Time `json:"timestamp"`
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker()).SetClientID("parking-simulator")
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	var devices []string
	for _, zone := range []string{"B1", "B2"} {
		for i := 1; i <= 5; i++ {
			devices = append(devices, fmt.Sprintf("PARK-%s-S%03d", zone, i))
		}
	}

	occupied := make(map[string]bool, len(devices))
	for i := 0; i < 100; i++ {
		now := time.Now().UTC()
		var readings []Reading
		var events []ParkingEvent
		for _, code := range devices {
			readings = append(readings, Reading{
				DeviceCode:  code,
				Timestamp:   now,
				Voltage:     220 + rand.Float64()*10,
				Current:     0.2 + rand.Float64()*0.3,
				PowerFactor: 0.9 + rand.Float64()*0.1,
			})
			if rand.Float64() < 0.2 {
				occupied[code] = !occupied[code]
				events = append(events, ParkingEvent{DeviceCode: code, IsOccupied: occupied[code], Timestamp: now})
			}
		}
		publish(client, config.MQTTTelemetryTopic(), readings)
		if len(events) > 0 {
			publish(client, config.MQTTOccupancyTopic(), events)
		}
		time.Sleep(5 * time.Second)
	}
	log.Info().Msg("simulation done")
}

func publish[T any](client mqtt.Client, topic string, records []T) {
	payload, err := json.Marshal(map[string][]T{"records": records})
	if err != nil {
		log.Error().Err(err).Msg("marshal batch")
		return
	}
	token := client.Publish(topic, 1, false, payload)
	token.Wait()
	if token.Error() != nil {
		log.Error().Err(token.Error()).Str("topic", topic).Msg("publish failed")
	}
}
