// Package alerts publishes listing price-change events for watchlist
// subscribers. Delivery to individual watchers is handled by downstream
// consumers of the broker; the API only emits the events.
package alerts

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/autogen/autogen/internal/models"
)

// PriceChange is the event emitted when a listing's price is updated.
type PriceChange struct {
	CarID     string    `json:"car_id"`
	Year      int       `json:"year"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	OldPrice  float64   `json:"old_price"`
	NewPrice  float64   `json:"new_price"`
	ChangedAt time.Time `json:"changed_at"`
}

// Publisher emits price-change events.
type Publisher interface {
	PublishPriceChange(car *models.Car, oldPrice float64) error
	Close()
}

// MQTTPublisher publishes price changes to an MQTT broker, one topic per
// listing under autogen/cars/<id>/price.
type MQTTPublisher struct {
	client mqtt.Client
	logger *log.Logger
}

// NewMQTTPublisher connects to the broker and returns a publisher.
func NewMQTTPublisher(broker, clientID string, logger *log.Logger) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10*time.Second) || token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect to %s failed: %w", broker, token.Error())
	}
	return &MQTTPublisher{client: client, logger: logger}, nil
}

// PublishPriceChange emits a price-change event for a listing.
func (p *MQTTPublisher) PublishPriceChange(car *models.Car, oldPrice float64) error {
	event := PriceChange{
		CarID:     car.ID.Hex(),
		Year:      car.Year,
		Make:      car.Make,
		Model:     car.Model,
		OldPrice:  oldPrice,
		NewPrice:  car.Price,
		ChangedAt: time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal price change: %w", err)
	}

	topic := fmt.Sprintf("autogen/cars/%s/price", event.CarID)
	token := p.client.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	p.logger.WithFields(log.Fields{
		"car_id":    event.CarID,
		"old_price": oldPrice,
		"new_price": car.Price,
	}).Debug("published price change")
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

// NoopPublisher drops all events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPriceChange(*models.Car, float64) error { return nil }
func (NoopPublisher) Close()                                        {}
