// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/inertial_viewer/internal/config"
)

// RunConsoleMQTT prints every load report published by the web server.
func RunConsoleMQTT() error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("config not initialized")
	}
	if cfg.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required for the status console")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb + "-console")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicStatus, 0, func(_ mqtt.Client, msg mqtt.Message) {
		printStatus(os.Stdout, msg.Payload())
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicStatus)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

func printStatus(w io.Writer, payload []byte) {
	var ev StatusEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		log.Printf("console: status unmarshal error: %v", err)
		return
	}

	rep := ev.Report
	if !rep.OK {
		fmt.Fprintf(w, "[FAIL] session=%s %s\n", ev.Session, rep.Status)
		return
	}
	tag := "[LOAD]"
	if rep.Warning {
		tag = "[WARN]"
	}
	fmt.Fprintf(w, "%s session=%s %s rows=%d duration=%.3fs drift=%.3fs integrated=%t\n",
		tag, ev.Session, rep.RawLabel, rep.Rows, rep.TimeMax, rep.Drift, rep.Integrated)
}
