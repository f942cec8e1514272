package tracking

import (
	"log"
	"net/http"

	"github.com/matst80/slask-filters/pkg/messaging"
	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitTracking struct {
	prefix     string
	dashboard  string
	connection *amqp.Connection
}

func NewRabbitTracking(url, prefix, dashboard string) (*RabbitTracking, error) {
	ret := RabbitTracking{
		prefix:    prefix,
		dashboard: dashboard,
	}
	if err := ret.connect(url); err != nil {
		return nil, err
	}
	return &ret, nil
}

func (t *RabbitTracking) connect(url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	t.connection = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	if err = messaging.DefineTopic(ch, t.prefix, messaging.SessionStarted); err != nil {
		return err
	}
	return messaging.DefineTopic(ch, t.prefix, messaging.FilterChanged)
}

func (t *RabbitTracking) Close() error {
	return t.connection.Close()
}

func (t *RabbitTracking) TrackSession(sessionId string, r *http.Request) {
	err := messaging.SendChange(t.connection, t.prefix, messaging.SessionStarted, Session{
		BaseEvent: &BaseEvent{Event: sessionEvent, SessionId: sessionId, Dashboard: t.dashboard},
		Language:  r.Header.Get("Accept-Language"),
		UserAgent: r.UserAgent(),
		Ip:        clientIp(r),
	})
	if err != nil {
		log.Println("Error sending session event: ", err)
	}
}

func (t *RabbitTracking) TrackFilterChange(change FilterChange) {
	if err := messaging.SendChange(t.connection, t.prefix, messaging.FilterChanged, change); err != nil {
		log.Println("Error sending filter change event: ", err)
	}
}
