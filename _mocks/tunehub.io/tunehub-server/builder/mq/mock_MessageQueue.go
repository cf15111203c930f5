// Code generated manually to mirror mockery patterns. DO NOT EDIT.

package mq

import (
	mock "github.com/stretchr/testify/mock"
	mq "tunehub.io/tunehub-server/builder/mq"
)

// MockMessageQueue is a mock for mq.MessageQueue.
type MockMessageQueue struct {
	mock.Mock
}

func (m *MockMessageQueue) Publish(topic string, raw []byte) error {
	ret := m.Called(topic, raw)
	return ret.Error(0)
}

func (m *MockMessageQueue) Subscribe(params mq.SubscribeParams) error {
	ret := m.Called(params)
	return ret.Error(0)
}

func (m *MockMessageQueue) Close() {
	m.Called()
}
