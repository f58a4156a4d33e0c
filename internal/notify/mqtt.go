package notify

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig broker settings for the in-app push channel.
type MQTTConfig struct {
	Broker   string // e.g. "tcp://localhost:1883"
	ClientID string
	Username string
	Password string
	Topic    string // per-recipient suffixing happens in Notify
	QoS      byte
}

// MQTTNotifier publishes notifications to a per-recipient MQTT topic.
// The web/mobile clients subscribe to their own topic for in-app push.
type MQTTNotifier struct {
	client mqtt.Client
	cfg    MQTTConfig
}

func NewMQTTNotifier(cfg MQTTConfig) (*MQTTNotifier, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	if cfg.Topic == "" {
		cfg.Topic = "roomfindr/notifications"
	}
	return &MQTTNotifier{client: client, cfg: cfg}, nil
}

var _ Notifier = (*MQTTNotifier)(nil)

func (m *MQTTNotifier) Notify(_ context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	topic := m.cfg.Topic + "/" + n.RecipientID
	token := m.client.Publish(topic, m.cfg.QoS, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to topic %s: %w", topic, token.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (m *MQTTNotifier) Close() {
	m.client.Disconnect(250)
}
