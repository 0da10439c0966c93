package control

import (
	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/stretchr/testify/mock"
)

type nodeSessionMock struct {
	mock.Mock
}

func (n *nodeSessionMock) Device() entities.DeviceIdentity {
	args := n.Called()
	return args.Get(0).(entities.DeviceIdentity)
}

func (n *nodeSessionMock) PublishTelemetry(record entities.TelemetryRecord, confirm bool) error {
	args := n.Called(record, confirm)
	return args.Error(0)
}

func (n *nodeSessionMock) SubscribeCommands(handler func(entities.CommandRecord) error) error {
	args := n.Called(handler)
	return args.Error(0)
}

func (n *nodeSessionMock) Close() error {
	args := n.Called()
	return args.Error(0)
}

type controllerSessionMock struct {
	mock.Mock
}

func (c *controllerSessionMock) Device() entities.DeviceIdentity {
	args := c.Called()
	return args.Get(0).(entities.DeviceIdentity)
}

func (c *controllerSessionMock) PublishCommand(command entities.CommandRecord, confirm bool) error {
	args := c.Called(command, confirm)
	return args.Error(0)
}

func (c *controllerSessionMock) SubscribeTelemetry(handler func(entities.TelemetryRecord) error) error {
	args := c.Called(handler)
	return args.Error(0)
}

func (c *controllerSessionMock) Close() error {
	args := c.Called()
	return args.Error(0)
}
