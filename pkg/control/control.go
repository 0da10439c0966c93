// Package control runs the two ends of the temperature loop: the node that samples and reports, and the controller
// that answers every report with an LED command.
package control

import (
	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
)

type nodeSession interface {
	Device() entities.DeviceIdentity
	PublishTelemetry(record entities.TelemetryRecord, confirm bool) error
	SubscribeCommands(handler func(entities.CommandRecord) error) error
	Close() error
}

type controllerSession interface {
	Device() entities.DeviceIdentity
	PublishCommand(command entities.CommandRecord, confirm bool) error
	SubscribeTelemetry(handler func(entities.TelemetryRecord) error) error
	Close() error
}
