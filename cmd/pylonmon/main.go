package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/exepirit/pylontech-go/internal/config"
	"github.com/exepirit/pylontech-go/internal/monitor"
	"github.com/exepirit/pylontech-go/pkg/pylontech"
	"github.com/exepirit/pylontech-go/pkg/pylontech/mqtt"
	"github.com/exepirit/pylontech-go/pkg/pylontech/serial"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: pylonmon <config.yaml>")
	}

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// connect to battery console
	session := pylontech.NewSession(serial.Opener{}, pylontech.US2000B())
	if cfg.Battery.Initialise {
		log.Println("Waking battery console...")
		if err := session.Initialise(ctx, cfg.Battery.Port); err != nil {
			log.Fatalf("console handshake failed: %v", err)
		}
	} else {
		if err := session.Open(cfg.Battery.Port, session.Profile.ConsoleBaud); err != nil {
			log.Fatalf("failed to open port: %v", err)
		}
		if !session.IsConnected() {
			log.Fatal("console did not answer the liveness probe; try initialise: true")
		}
	}
	defer session.Close()
	log.Println("Connected!")

	// connect to MQTT broker
	publisher := &mqtt.Publisher{
		BrokerURL: cfg.MQTT.Broker,
		Username:  cfg.MQTT.Username,
		Password:  cfg.MQTT.Password,
		AppName:   "pylonmon",
		RootTopic: cfg.MQTT.Topic,
	}
	if err := publisher.Connect(); err != nil {
		log.Fatalf("MQTT connect failed: %v", err)
	}
	defer publisher.Disconnect()

	mon := &monitor.Monitor{
		Source:   session,
		Sink:     publisher,
		Modules:  cfg.Battery.Modules,
		Interval: cfg.Poll.Interval(),
		Logger:   slog.Default(),
	}
	mon.Run(ctx)
}
