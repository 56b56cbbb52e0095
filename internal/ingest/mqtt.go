package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/dzangaro/miti/internal/domain"
)

// sensorEvent is the wire shape published by the sensor gateways.
type sensorEvent struct {
	Severity     string `json:"severity"`
	AlertType    string `json:"alert_type"`
	Location     string `json:"location"`
	PolicyNumber string `json:"policy_number"`
	AssignedTo   string `json:"assigned_to"`
	ContactPhone string `json:"contact_phone"`
	Source       string `json:"source"`
	Notes        string `json:"notes"`
}

// MQTTFeed subscribes to the sensor alert topic and pushes decoded events
// into the alert store. Ingested alerts always start in the active state.
type MQTTFeed struct {
	client mqtt.Client
	topic  string
	sink   Sink
	logger *zap.Logger
}

func NewMQTTFeed(brokerURL, clientID, topic string, sink Sink, logger *zap.Logger) (*MQTTFeed, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", zap.Error(err))
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", brokerURL, token.Error())
	}

	return &MQTTFeed{
		client: client,
		topic:  topic,
		sink:   sink,
		logger: logger,
	}, nil
}

// Start subscribes to the alert topic. Malformed payloads are logged and
// dropped; the subscription stays up.
func (f *MQTTFeed) Start() error {
	token := f.client.Subscribe(f.topic, 1, f.handleMessage)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", f.topic, token.Error())
	}
	f.logger.Info("mqtt feed started", zap.String("topic", f.topic))
	return nil
}

func (f *MQTTFeed) Stop() {
	f.client.Disconnect(250)
}

func (f *MQTTFeed) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var event sensorEvent
	if err := json.Unmarshal(msg.Payload(), &event); err != nil {
		f.logger.Warn("dropping malformed sensor event",
			zap.String("topic", msg.Topic()),
			zap.Error(err),
		)
		return
	}

	alert := f.sink.Ingest(domain.Alert{
		Severity:     domain.Severity(event.Severity),
		AlertType:    event.AlertType,
		Location:     event.Location,
		Timestamp:    time.Now().Format("1/2/2006, 3:04:05 PM"),
		PolicyNumber: event.PolicyNumber,
		AssignedTo:   event.AssignedTo,
		ContactPhone: event.ContactPhone,
		Source:       event.Source,
		Status:       domain.AlertStatusActive,
		Notes:        event.Notes,
	})

	f.logger.Debug("sensor event ingested",
		zap.Int64("alert_id", alert.ID),
		zap.String("alert_type", alert.AlertType),
	)
}
