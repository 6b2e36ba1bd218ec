package mq

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"
)

const publishTimeout = 5 * time.Second

// AlertPublisher broadcasts completed alerts to the alerts topic. It
// implements the coordinator's Subscriber contract: fire-and-forget, no
// retry, delivery failures only logged.
type AlertPublisher struct {
	writer *kafka.Writer
}

func NewAlertPublisher(brokers []string, topic string) *AlertPublisher {
	return &AlertPublisher{writer: NewWriter(brokers, topic)}
}

func (p *AlertPublisher) Publish(alert contracts.Alert) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := PublishJSON(ctx, p.writer, alert.Identity, alert); err != nil {
		log.Printf("alert publisher: publish %s: %v", alert.ID, err)
	}
}

func (p *AlertPublisher) Close() error {
	return p.writer.Close()
}

// notification is the message written per stakeholder to the outbound
// notifications topic.
type notification struct {
	Role    string                 `json:"role"`
	Summary contracts.AlertSummary `json:"summary"`
	SentAt  time.Time              `json:"sent_at"`
}

// Notifier delivers stakeholder notifications through the notifications
// topic, one message per role. A downstream relay turns them into
// email/SMS/chat; that is out of scope here.
type Notifier struct {
	writer *kafka.Writer
}

func NewNotifier(brokers []string, topic string) *Notifier {
	return &Notifier{writer: NewWriter(brokers, topic)}
}

func (n *Notifier) Send(ctx context.Context, role string, summary contracts.AlertSummary) error {
	return PublishJSON(ctx, n.writer, role, notification{
		Role:    role,
		Summary: summary,
		SentAt:  time.Now().UTC(),
	})
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}
