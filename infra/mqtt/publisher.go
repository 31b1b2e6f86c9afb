package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/freightdispatch/core/events"
	coremon "github.com/kilianp07/freightdispatch/core/monitoring"
	"github.com/kilianp07/freightdispatch/infra/logger"
	"github.com/kilianp07/freightdispatch/internal/eventbus"
)

// DecisionPublisher forwards pipeline decisions to the broker on
// <prefix>/<status>, or <prefix>/failed for runs that ended in an error.
type DecisionPublisher struct {
	cli        pahoClient
	prefix     string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	logger     logger.Logger
}

// decisionMessage is the JSON payload of a decision topic.
type decisionMessage struct {
	ExecutionID string  `json:"execution_id"`
	CargoID     string  `json:"cargo_id"`
	Plate       string  `json:"plate,omitempty"`
	Status      string  `json:"status,omitempty"`
	Margin      float64 `json:"margin"`
	Exploration bool    `json:"exploration"`
	Stage       string  `json:"stage"`
	LatencyMS   float64 `json:"latency_ms"`
	Error       string  `json:"error,omitempty"`
	Timestamp   int64   `json:"timestamp"`
}

// NewDecisionPublisher connects to the MQTT broker.
func NewDecisionPublisher(cfg Config) (*DecisionPublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.New("mqtt_publisher")
	p := &DecisionPublisher{
		prefix:     cfg.TopicPrefix,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		logger:     log,
	}
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	p.cli = c
	return p, nil
}

// Topic returns the topic an event is published on.
func (p *DecisionPublisher) Topic(ev events.DecisionEvent) string {
	if ev.Failed() {
		return p.prefix + "/failed"
	}
	return p.prefix + "/" + ev.Status.String()
}

// PublishDecision sends one event, retrying with exponential backoff.
func (p *DecisionPublisher) PublishDecision(ev events.DecisionEvent) error {
	msg := decisionMessage{
		ExecutionID: ev.ExecutionID,
		CargoID:     ev.CargoID,
		Plate:       ev.Plate,
		Margin:      ev.Margin,
		Exploration: ev.Exploration,
		Stage:       ev.Stage,
		LatencyMS:   ev.Latency.Seconds() * 1000,
		Timestamp:   ev.At.UnixMilli(),
	}
	if ev.Failed() {
		msg.Error = ev.Err.Error()
	} else {
		msg.Status = ev.Status.String()
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	topic := p.Topic(ev)
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, p.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.logger.Debugf("published %s to %s", ev.ExecutionID, topic)
			return nil
		}
		p.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt < p.maxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	err = fmt.Errorf("publish %s: %w", topic, publishErr)
	coremon.CaptureException(err, map[string]string{
		"module":       "mqtt",
		"execution_id": ev.ExecutionID,
		"cargo_id":     ev.CargoID,
	})
	return err
}

// Run publishes every event of bus until ctx is done or the bus is closed.
func (p *DecisionPublisher) Run(ctx context.Context, bus *eventbus.TypedBus[events.DecisionEvent]) {
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			_ = p.PublishDecision(ev)
		}
	}
}

// Disconnect gracefully closes the MQTT connection.
func (p *DecisionPublisher) Disconnect() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
