package mqtt

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/exepirit/pylontech-go/pkg/pylontech"
)

// Publisher pushes battery telemetry to an MQTT broker as JSON.
type Publisher struct {
	// BrokerURL is the URL of the MQTT broker to connect to.
	BrokerURL string
	// Username is the username for MQTT authentication.
	Username string
	// Password is the password for MQTT authentication.
	Password string
	// AppName is a unique identifier for the application, used in the MQTT client ID.
	AppName string
	// RootTopic is the base topic for all messages.
	RootTopic string

	client mqtt.Client
}

// reportMessage is the published payload: one report plus its capture time.
type reportMessage struct {
	Time    time.Time                   `json:"time"`
	Modules []pylontech.ModuleTelemetry `json:"modules"`
}

// Connect establishes an MQTT connection to the broker using a randomized
// client ID derived from AppName.
func (p *Publisher) Connect() error {
	if p.client != nil && p.client.IsConnected() {
		return nil
	}

	randomId := make([]byte, 4)
	_, _ = rand.Read(randomId)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(p.BrokerURL)
	opts.SetUsername(p.Username)
	opts.SetPassword(p.Password)
	opts.SetClientID(fmt.Sprintf("%s-%x", p.AppName, randomId))
	opts.SetOrderMatters(false)

	p.client = mqtt.NewClient(opts)

	token := p.client.Connect()
	<-token.Done()
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to connect MQTT: %w", err)
	}

	return nil
}

// PublishReport publishes one telemetry report to "<RootTopic>/report",
// retained so late subscribers see the latest stack state.
func (p *Publisher) PublishReport(report pylontech.Report) error {
	if p.client == nil || !p.client.IsConnected() {
		return ErrNotConnected
	}

	msgData, err := json.Marshal(reportMessage{
		Time:    time.Now().UTC(),
		Modules: report,
	})
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}

	token := p.client.Publish(p.RootTopic+"/report", 0, true, msgData)
	<-token.Done()
	return token.Error()
}

// Disconnect closes the MQTT connection.
func (p *Publisher) Disconnect() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(1000)
	}
}
