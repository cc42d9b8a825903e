// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/inertial_viewer/internal/session"
)

// Publisher sends status messages somewhere outside the process.
type Publisher interface {
	Publish(topic string, payload []byte) error
	Close()
}

// StatusEvent is published after every load attempt.
type StatusEvent struct {
	Session string         `json:"session"`
	Time    time.Time      `json:"time"`
	Report  session.Report `json:"report"`
}

type mqttPublisher struct {
	client mqtt.Client
}

// ConnectMQTT connects to the broker and returns a publisher.
func ConnectMQTT(broker, clientID string) (Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, token.Error())
	}
	log.Printf("web: connected to MQTT broker at %s", broker)
	return &mqttPublisher{client: client}, nil
}

func (p *mqttPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, 0, true, payload)
	token.Wait()
	return token.Error()
}

func (p *mqttPublisher) Close() {
	p.client.Disconnect(250)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, []byte) error { return nil }
func (noopPublisher) Close()                       {}

// publishReport never fails the request; broker problems are logged.
func publishReport(pub Publisher, topic, sessionID string, rep session.Report) {
	payload, err := json.Marshal(StatusEvent{Session: sessionID, Time: time.Now().UTC(), Report: rep})
	if err != nil {
		log.Printf("web: status marshal error: %v", err)
		return
	}
	if err := pub.Publish(topic, payload); err != nil {
		log.Printf("web: status publish error: %v", err)
	}
}
