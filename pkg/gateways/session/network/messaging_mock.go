package network

import (
	"github.com/stretchr/testify/mock"
)

type MessagingMock struct {
	mock.Mock
}

func (m *MessagingMock) Start() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MessagingMock) Stop() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MessagingMock) OnMessage(msgChan chan InMsg, topic string) error {
	args := m.Called(msgChan, topic)
	return args.Error(0)
}

func (m *MessagingMock) Unsubscribe(topic string) error {
	args := m.Called(topic)
	return args.Error(0)
}

func (m *MessagingMock) Publish(topic string, body []byte, options *MessageOptions) error {
	args := m.Called(topic, body, options)
	return args.Error(0)
}

func (m *MessagingMock) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}
