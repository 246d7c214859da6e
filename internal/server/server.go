// ABOUTME: Top-level bitgrind service: wires source, engine, output and control
// ABOUTME: Owns startup/shutdown of the WS, MQTT, mDNS and metrics side-cars
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitgrind-audio/bitgrind-go/internal/config"
	"github.com/bitgrind-audio/bitgrind-go/internal/control"
	"github.com/bitgrind-audio/bitgrind-go/internal/discovery"
	"github.com/bitgrind-audio/bitgrind-go/internal/engine"
	"github.com/bitgrind-audio/bitgrind-go/internal/metrics"
	"github.com/bitgrind-audio/bitgrind-go/internal/output"
	"github.com/bitgrind-audio/bitgrind-go/internal/source"
	"github.com/bitgrind-audio/bitgrind-go/pkg/dsp"
)

// Server runs the whole processor: an audio source feeding the crusher
// engine, optional speaker output, and the MIDI control ingest paths.
type Server struct {
	cfg   *config.Config
	debug bool

	eng *engine.Engine
	m   *metrics.Metrics

	src source.Source
	out *output.Output

	ws         *control.WSServer
	mqtt       *control.MQTTSubscriber
	adv        *discovery.Advertiser
	metricsSrv *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a server from a validated configuration.
func New(cfg *config.Config, debug bool) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		cfg:    cfg,
		debug:  debug,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start brings up every component and then blocks in the audio loop
// until Stop is called or the source ends.
func (s *Server) Start() error {
	src, err := source.New(s.cfg.Audio.File)
	if err != nil {
		return fmt.Errorf("failed to open audio source: %w", err)
	}
	s.src = src

	reg := prometheus.NewRegistry()
	s.m = metrics.New(reg)

	s.eng = engine.New(engine.Config{
		Params: dsp.Params{
			BitDepth:         s.cfg.Effects.BitDepth,
			DecimationFactor: s.cfg.Effects.DecimationFactor,
		},
		Metrics: s.m,
	})
	go s.eng.Run(s.ctx)

	s.ws = control.NewWSServer(control.WSConfig{
		Port:    s.cfg.Control.WSPort,
		Path:    s.cfg.Control.WSPath,
		Metrics: s.m,
	}, s.eng)
	if err := s.ws.Start(); err != nil {
		return fmt.Errorf("failed to start control server: %w", err)
	}

	if s.cfg.Control.MQTTBroker != "" {
		s.mqtt = control.NewMQTTSubscriber(control.MQTTConfig{
			Broker: s.cfg.Control.MQTTBroker,
			Topic:  s.cfg.Control.MQTTTopic,
		}, s.eng)
		if err := s.mqtt.Start(); err != nil {
			s.mqtt = nil
			s.shutdown()
			return fmt.Errorf("failed to start MQTT subscriber: %w", err)
		}
	}

	if s.cfg.Discovery.Enabled {
		s.adv = discovery.NewAdvertiser(discovery.Config{
			InstanceName: s.instanceName(),
			Port:         s.cfg.Control.WSPort,
			Path:         s.cfg.Control.WSPath,
		})
		if err := s.adv.Start(); err != nil {
			log.Printf("mDNS advertisement failed, continuing without: %v", err)
			s.adv = nil
		}
	}

	if s.cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		s.metricsSrv = &http.Server{
			Addr:    fmt.Sprintf(":%d", s.cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			log.Printf("Metrics endpoint on :%d/metrics", s.cfg.Metrics.Port)
			if err := s.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Metrics server error: %v", err)
			}
		}()
	}

	if s.cfg.Audio.PlayOutput {
		out, err := output.NewOutput(src.SampleRate())
		if err != nil {
			s.shutdown()
			return fmt.Errorf("failed to open audio output: %w", err)
		}
		s.out = out
	}

	log.Printf("Processing %s at %d Hz (bit depth %d, decimation %d)",
		s.sourceName(), src.SampleRate(),
		s.cfg.Effects.BitDepth, s.cfg.Effects.DecimationFactor)

	err = s.audioLoop()
	s.shutdown()
	return err
}

// Stop requests a graceful shutdown.
func (s *Server) Stop() {
	s.cancel()
}

// audioLoop streams source blocks through the engine until the source
// ends or the server is stopped.
func (s *Server) audioLoop() error {
	block := make([]int16, s.cfg.Audio.BlockSize)
	blockDuration := time.Duration(s.cfg.Audio.BlockSize/2) * time.Second / time.Duration(s.src.SampleRate())

	for {
		select {
		case <-s.ctx.Done():
			return nil
		default:
		}

		n, err := s.src.Read(block)
		if n > 0 {
			processed := s.eng.ProcessBlock(block[:n&^1])
			s.deliver(processed, blockDuration)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Drain the frames still in flight inside the codec.
				s.deliver(s.eng.Flush(8), blockDuration)
				log.Printf("Source finished")
				return nil
			}
			return fmt.Errorf("source read failed: %w", err)
		}
	}
}

// deliver hands processed samples to the output, or paces the loop in
// real time when no output device is in use.
func (s *Server) deliver(samples []int16, blockDuration time.Duration) {
	if len(samples) == 0 {
		return
	}
	if s.out != nil {
		if err := s.out.Write(samples); err != nil && s.debug {
			log.Printf("Output write failed: %v", err)
		}
		return
	}
	select {
	case <-time.After(blockDuration):
	case <-s.ctx.Done():
	}
}

func (s *Server) shutdown() {
	if s.out != nil {
		s.out.Close()
	}
	if s.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		s.metricsSrv.Shutdown(ctx)
		cancel()
	}
	if s.adv != nil {
		s.adv.Stop()
	}
	if s.mqtt != nil {
		s.mqtt.Stop()
	}
	if s.ws != nil {
		s.ws.Stop()
	}
	if s.src != nil {
		s.src.Close()
	}
	s.cancel()
}

func (s *Server) instanceName() string {
	if s.cfg.Discovery.Name != "" {
		return s.cfg.Discovery.Name
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("%s-bitgrind", hostname)
}

func (s *Server) sourceName() string {
	if s.cfg.Audio.File == "" {
		return "test tone"
	}
	return s.cfg.Audio.File
}
