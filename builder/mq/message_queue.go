package mq

import (
	"fmt"
	"sync"

	"tunehub.io/tunehub-server/common/config"
)

type MessageQueue interface {
	Publish(topic string, raw []byte) error
	Subscribe(params SubscribeParams) error
	Close()
}

var (
	systemMQ MessageQueue
	once     sync.Once
)

// GetOrInit returns the process wide message queue, connecting on first use.
func GetOrInit(config *config.Config) (MessageQueue, error) {
	var err error
	once.Do(func() {
		systemMQ, err = NewNats(config)
	})
	if err == nil && systemMQ == nil {
		err = fmt.Errorf("message queue initialization failed earlier in this process")
	}
	return systemMQ, err
}
