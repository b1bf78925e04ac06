package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/quangtran/folio-api/adapters/event"
	"github.com/quangtran/folio-api/internal/config"
)

// The worker is the notification boundary: contact submissions are consumed
// here, off the request path. Delivery transports (SMTP etc.) plug in behind
// notify; the API server never blocks on them.
func main() {
	fmt.Println("Starting Folio Worker...")

	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	// Kafka Consumer
	contactConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicContactEvents,
		GroupID:  "contact-notifier-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer contactConsumer.Close()

	log.Printf("Worker listening on topic '%s'...", event.TopicContactEvents)

	ctx := context.Background()
	for {
		msg, err := contactConsumer.ReadMessage(ctx)
		if err != nil {
			log.Printf("ERROR: Failed to read message from Kafka: %v", err)
			continue
		}

		var payload event.ContactEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Printf("ERROR: Failed to unmarshal contact event: %v. Skipping.", err)
			commitMessage(contactConsumer, msg)
			continue
		}

		notify(payload)
		commitMessage(contactConsumer, msg)
	}
}

func notify(payload event.ContactEventPayload) {
	log.Printf("New portfolio message %s from %s <%s> at %s",
		payload.MessageID, payload.Name, payload.Email, payload.At.Format("2006-01-02 15:04:05"))
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Printf("ERROR: Failed to commit message: %v", err)
	}
}
