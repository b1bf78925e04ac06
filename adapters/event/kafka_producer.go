package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quangtran/folio-api/internal/config"
	"github.com/segmentio/kafka-go"
)

const (
	TopicPortfolioEvents = "portfolio.events"
	TopicContactEvents   = "contact.events"
)

// PortfolioEventPayload announces a content change: which section, which
// operation, and (for array sections) which element.
type PortfolioEventPayload struct {
	EventType string    `json:"event_type"` // section.updated | item.added | item.updated | item.deleted
	Section   string    `json:"section"`
	ItemID    string    `json:"item_id,omitempty"`
	At        time.Time `json:"at"`
}

// ContactEventPayload carries a contact-form submission to the notification
// worker. Delivery of the actual notification happens there, not inline.
type ContactEventPayload struct {
	MessageID string    `json:"message_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

type KafkaProducerClient struct {
	PortfolioEventsWriter *kafka.Writer
	ContactEventsWriter   *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	portfolioWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicPortfolioEvents,
		Balancer: &kafka.LeastBytes{},
	}

	contactWriter := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicContactEvents,
		Balancer: &kafka.LeastBytes{},
	}

	fmt.Println("Initialize Kafka Producers successfully.")

	return &KafkaProducerClient{
		PortfolioEventsWriter: portfolioWriter,
		ContactEventsWriter:   contactWriter,
	}, nil
}

func (c *KafkaProducerClient) PublishPortfolioEvent(ctx context.Context, payload PortfolioEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot marshal portfolio event: %w", err)
	}
	return c.PortfolioEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(payload.Section),
		Value: value,
	})
}

func (c *KafkaProducerClient) PublishContactEvent(ctx context.Context, payload ContactEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot marshal contact event: %w", err)
	}
	return c.ContactEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(payload.MessageID),
		Value: value,
	})
}

func (c *KafkaProducerClient) Close() {
	if c.PortfolioEventsWriter != nil {
		c.PortfolioEventsWriter.Close()
	}
	if c.ContactEventsWriter != nil {
		c.ContactEventsWriter.Close()
	}
	fmt.Println("Closed Kafka Producers")
}
