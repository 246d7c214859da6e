// ABOUTME: Entry point for the bitgrind streaming processor
// ABOUTME: Parses CLI flags, loads config and starts the server
package main

import (
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitgrind-audio/bitgrind-go/internal/config"
	"github.com/bitgrind-audio/bitgrind-go/internal/server"
)

var (
	configPath = flag.String("config", "", "YAML config file (optional)")
	audioFile  = flag.String("audio", "", "Audio file to process (WAV, MP3, FLAC). If not specified, plays test tone")
	port       = flag.Int("port", 0, "WebSocket control port (overrides config)")
	mqttBroker = flag.String("mqtt", "", "MQTT broker URL for control ingest, e.g. tcp://broker:1883 (overrides config)")
	noOutput   = flag.Bool("no-output", false, "Process without playing to the audio device")
	noMDNS     = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	logFile    = flag.String("log-file", "bitgrind-server.log", "Log file path")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	// Set up logging (both file and console)
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	multiWriter := io.MultiWriter(os.Stdout, f)
	log.SetOutput(multiWriter)

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("error loading config: %v", err)
		}
	}

	// Flags win over file settings
	if *audioFile != "" {
		cfg.Audio.File = *audioFile
	}
	if *port != 0 {
		cfg.Control.WSPort = *port
	}
	if *mqttBroker != "" {
		cfg.Control.MQTTBroker = *mqttBroker
	}
	if *noOutput {
		cfg.Audio.PlayOutput = false
	}
	if *noMDNS {
		cfg.Discovery.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	log.Printf("Starting bitgrind server on port %d", cfg.Control.WSPort)
	if *debug {
		log.Printf("Debug logging enabled")
	}
	log.Printf("Logging to: %s", *logFile)
	log.Printf("Press Ctrl-C to stop")

	srv := server.New(cfg, *debug)

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("\nReceived %v signal, shutting down gracefully...", sig)
		srv.Stop()
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Printf("Server stopped")
}
