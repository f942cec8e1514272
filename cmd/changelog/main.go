package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/matst80/slask-filters/pkg/messaging"
	"github.com/matst80/slask-filters/pkg/tracking"
	amqp "github.com/rabbitmq/amqp091-go"
)

// changelog prints the filter changes published by the dashboard services.
func main() {
	rabbitUrl, ok := os.LookupEnv("RABBIT_URL")
	if !ok {
		log.Fatalf("No rabbit url provided")
	}
	dashboard := os.Getenv("DASHBOARD")
	if dashboard == "" {
		dashboard = "default"
	}

	conn, err := amqp.DialConfig(rabbitUrl, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Failed to open a channel: %v", err)
	}
	if err = messaging.DefineTopic(ch, dashboard, messaging.FilterChanged); err != nil {
		log.Fatalf("Failed to declare topic: %v", err)
	}
	err = messaging.ListenToChanges(ch, dashboard, messaging.FilterChanged, func(change tracking.FilterChange) error {
		if change.BaseEvent == nil {
			log.Printf("filter %s changed (%s) -> %s", change.Key, change.Reason, change.Query)
			return nil
		}
		log.Printf("[%s] filter %s changed (%s) -> %s", change.SessionId, change.Key, change.Reason, change.Query)
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to listen for changes: %v", err)
	}
	log.Printf("Listening for filter changes on %s", dashboard)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
}
