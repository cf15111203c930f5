package event

import (
	"fmt"
	"time"

	"tunehub.io/tunehub-server/builder/mq"
	"tunehub.io/tunehub-server/common/config"
)

var DefaultEventPublisher *EventPublisher

// EventPublisher pushes platform events onto the message queue. Publishing
// is best effort with bounded retries so a queue hiccup never turns into a
// failed API request; callers log and move on.
type EventPublisher struct {
	Connector mq.MessageQueue
	Cfg       *config.Config
}

func InitEventPublisher(cfg *config.Config) error {
	handler, err := mq.GetOrInit(cfg)
	if err != nil {
		return fmt.Errorf("error creating message queue handler: %w", err)
	}
	DefaultEventPublisher = &EventPublisher{
		Connector: handler,
		Cfg:       cfg,
	}
	return nil
}

func (ec *EventPublisher) PublishTrainJobEvent(message []byte) error {
	return ec.publish(ec.Cfg.Nats.TrainJobSubject, message)
}

func (ec *EventPublisher) PublishEnvironmentEvent(message []byte) error {
	return ec.publish(ec.Cfg.Nats.EnvironmentSubject, message)
}

func (ec *EventPublisher) PublishDatasetEvent(message []byte) error {
	return ec.publish(ec.Cfg.Nats.DatasetSubject, message)
}

func (ec *EventPublisher) PublishPipelineEvent(message []byte) error {
	return ec.publish(ec.Cfg.Nats.PipelineSubject, message)
}

func (ec *EventPublisher) PublishInferenceEvent(message []byte) error {
	return ec.publish(ec.Cfg.Nats.InferenceSubject, message)
}

func (ec *EventPublisher) publish(subject string, message []byte) error {
	var err error
	for range 3 {
		err = ec.Connector.Publish(subject, message)
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}

	if err != nil {
		return fmt.Errorf("failed to publish event to %s for 3 retries, %w", subject, err)
	}

	return nil
}
