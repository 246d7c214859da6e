// ABOUTME: MQTT ingest for MIDI control bytes
// ABOUTME: Subscribes to a broker topic and streams payloads to the sink
package control

import (
	"fmt"
	"log"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig holds broker connection settings.
type MQTTConfig struct {
	// Broker is the server URL, e.g. tcp://broker.local:1883.
	Broker string
	// Topic carries raw MIDI bytes; defaults to bitgrind/midi.
	Topic string
	// ClientID defaults to bitgrind-control.
	ClientID string
}

// MQTTSubscriber feeds MIDI bytes published on a broker topic to the
// sink. Useful where the controller is an embedded device already on
// an MQTT bus rather than something that can open a WebSocket.
type MQTTSubscriber struct {
	config MQTTConfig
	sink   ByteSink
	client paho.Client
}

// NewMQTTSubscriber creates a subscriber feeding sink.
func NewMQTTSubscriber(config MQTTConfig, sink ByteSink) *MQTTSubscriber {
	if config.Topic == "" {
		config.Topic = "bitgrind/midi"
	}
	if config.ClientID == "" {
		config.ClientID = "bitgrind-control"
	}
	return &MQTTSubscriber{config: config, sink: sink}
}

// Start connects to the broker and subscribes.
func (m *MQTTSubscriber) Start() error {
	opts := paho.NewClientOptions().
		AddBroker(m.config.Broker).
		SetClientID(m.config.ClientID).
		SetAutoReconnect(true).
		SetCleanSession(true)

	opts.SetOnConnectHandler(func(c paho.Client) {
		token := c.Subscribe(m.config.Topic, 0, m.onMessage)
		token.Wait()
		if err := token.Error(); err != nil {
			log.Printf("MQTT subscribe failed: %v", err)
			return
		}
		log.Printf("MQTT control subscribed to %s", m.config.Topic)
	})

	m.client = paho.NewClient(opts)
	token := m.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("mqtt connect timed out: %s", m.config.Broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect failed: %w", err)
	}
	return nil
}

// Stop disconnects from the broker.
func (m *MQTTSubscriber) Stop() {
	if m.client != nil && m.client.IsConnected() {
		m.client.Disconnect(250)
	}
}

func (m *MQTTSubscriber) onMessage(_ paho.Client, msg paho.Message) {
	for _, b := range msg.Payload() {
		m.sink.FeedControl(b)
	}
}
