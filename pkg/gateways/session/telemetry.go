package session

import (
	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/gateways/session/network"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/metrics"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/topics"
)

// PublishTelemetry sends record on the device telemetry topic.
func (s *Session) PublishTelemetry(record entities.TelemetryRecord, confirm bool) error {
	body, err := network.EncodeTelemetry(record)
	if err != nil {
		return err
	}
	if err := s.Publish(topics.Telemetry(s.device.ID), body, confirm); err != nil {
		return err
	}
	metrics.TelemetryPublished.Inc()
	return nil
}

// PublishCommand sends command on the device command topic.
func (s *Session) PublishCommand(command entities.CommandRecord, confirm bool) error {
	body, err := network.EncodeCommand(command)
	if err != nil {
		return err
	}
	if err := s.Publish(topics.Command(s.device.ID), body, confirm); err != nil {
		return err
	}
	metrics.CommandsPublished.Inc()
	return nil
}

// SubscribeTelemetry calls handler with every well-formed reading on the device telemetry topic. Malformed
// payloads never reach handler.
func (s *Session) SubscribeTelemetry(handler func(entities.TelemetryRecord) error) error {
	return s.Subscribe(topics.Telemetry(s.device.ID), func(payload []byte) error {
		record, err := network.DecodeTelemetry(payload)
		if err != nil {
			return err
		}
		return handler(record)
	})
}

// SubscribeCommands calls handler with every well-formed command on the device command topic.
func (s *Session) SubscribeCommands(handler func(entities.CommandRecord) error) error {
	return s.Subscribe(topics.Command(s.device.ID), func(payload []byte) error {
		command, err := network.DecodeCommand(payload)
		if err != nil {
			return err
		}
		return handler(command)
	})
}
