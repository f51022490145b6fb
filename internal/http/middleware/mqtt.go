package middleware

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

// listTopic carries change events for classroom displays showing the day's
// song list.
const listTopic = "songday/requests/updated"

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("[mqtt] connected to broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("[mqtt] connection lost")
}

// CreateMQTTClient connects to the broker; the display notifier is optional
// and callers skip it entirely when no broker is configured.
func CreateMQTTClient(brokerURL, clientName string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientName)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %v", token.Error())
	}
	return client, nil
}

// DisplayNotifier publishes a message whenever the day's request list
// changes so connected displays can refresh without polling.
type DisplayNotifier struct {
	client mqtt.Client
}

func NewDisplayNotifier(client mqtt.Client) *DisplayNotifier {
	return &DisplayNotifier{client: client}
}

func (n *DisplayNotifier) ListChanged(day string) {
	if n == nil || n.client == nil {
		return
	}
	payload, _ := json.Marshal(map[string]string{
		"day":        day,
		"changed_at": time.Now().Format(time.RFC3339),
	})
	token := n.client.Publish(listTopic, 0, false, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			log.Warn().Err(token.Error()).Msg("[mqtt] publish failed")
		}
	}()
}
