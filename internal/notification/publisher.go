package notification

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/guardianapis/product-switch/internal/config"
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/guardianapis/product-switch/internal/logger"
	"github.com/oklog/ulid/v2"
)

// MessageType routes a message to its destination queue.
type MessageType string

const (
	MessageTypeEmail         MessageType = "email"
	MessageTypeSupporterData MessageType = "supporter_data"
)

// Message is one outbound notification. ID is minted at construction so
// consumers can deduplicate.
type Message struct {
	ID      string      `json:"id"`
	Type    MessageType `json:"type"`
	Payload any         `json:"payload"`
}

func NewMessage(messageType MessageType, payload any) *Message {
	return &Message{
		ID:      ulid.Make().String(),
		Type:    messageType,
		Payload: payload,
	}
}

// Publisher delivers messages to downstream consumers. Implementations are
// fire-and-forget from the core's point of view; a failed send is logged
// and surfaced but never rolls back the switch that triggered it.
type Publisher interface {
	Publish(ctx context.Context, msg *Message) error
}

type sqsPublisher struct {
	client    *sqs.Client
	queueURLs map[MessageType]string
	log       *logger.Logger
}

func NewSQSPublisher(cfg *config.Configuration, log *logger.Logger) (Publisher, error) {
	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
		awsConfig.WithRegion(cfg.Notification.Region),
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithMessage("failed to load aws config").
			Mark(ierr.ErrSystem)
	}

	return &sqsPublisher{
		client: sqs.NewFromConfig(awsCfg),
		queueURLs: map[MessageType]string{
			MessageTypeEmail:         cfg.Notification.EmailQueueURL,
			MessageTypeSupporterData: cfg.Notification.SupporterDataQueueURL,
		},
		log: log,
	}, nil
}

func (p *sqsPublisher) Publish(ctx context.Context, msg *Message) error {
	queueURL, ok := p.queueURLs[msg.Type]
	if !ok || queueURL == "" {
		return ierr.NewErrorf("no queue configured for message type %s", msg.Type).
			Mark(ierr.ErrSystem)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return ierr.WithError(err).
			WithMessage("failed to marshal notification message").
			Mark(ierr.ErrSystem)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return ierr.WithError(err).
			WithMessage("failed to publish notification message").
			WithReportableDetails(map[string]any{
				"message_id":   msg.ID,
				"message_type": msg.Type,
			}).
			Mark(ierr.ErrSystem)
	}

	p.log.Infow("published notification", "message_id", msg.ID, "message_type", msg.Type)
	return nil
}

// NoopPublisher is used when notifications are disabled by configuration.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, msg *Message) error {
	return nil
}
