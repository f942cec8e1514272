package messaging

import (
	"log"

	"github.com/matst80/slask-filters/pkg/common/jsoncompat"
	amqp "github.com/rabbitmq/amqp091-go"
)

func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, err
	}
	if err = ch.QueueBind(q.Name, name, name, false, nil); err != nil {
		return nil, err
	}
	return ch.Consume(q.Name, "", false, false, false, false, nil)
}

// ListenToChanges decodes every delivery on the topic into V and hands it to
// handle. Messages that fail to decode are rejected without requeue, a
// handler error stops the listener.
func ListenToChanges[V any](ch *amqp.Channel, prefix string, topic ChangeTopic, handle func(V) error) error {
	deliveries, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return err
	}

	go func(msgs <-chan amqp.Delivery) {
		defer ch.Close()
		for d := range msgs {
			var data V
			if err := jsoncompat.Unmarshal(d.Body, &data); err != nil {
				log.Printf("Failed to decode %s message: %v", topic, err)
				_ = d.Nack(false, false)
				continue
			}
			if err := handle(data); err != nil {
				log.Printf("Error processing %s message: %v", topic, err)
				return
			}
			_ = d.Ack(false)
		}
	}(deliveries)
	return nil
}
