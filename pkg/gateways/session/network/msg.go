package network

import (
	"encoding/json"

	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/pkg/errors"
)

// TelemetryMessage is the wire shape of a reading. Temperature duplicates TemperatureC for older receivers.
type TelemetryMessage struct {
	Temperature  *float64 `json:"temperature"`
	TemperatureC *float64 `json:"temperature_c,omitempty"`
	TemperatureF *float64 `json:"temperature_f,omitempty"`
	Timestamp    *float64 `json:"timestamp"`
	DeviceID     string   `json:"device_id,omitempty"`
}

type CommandMessage struct {
	LEDOn *bool `json:"led_on"`
}

func EncodeTelemetry(record entities.TelemetryRecord) ([]byte, error) {
	celsius := record.TemperatureC
	fahrenheit := record.Fahrenheit()
	timestamp := record.Timestamp
	body, err := json.Marshal(TelemetryMessage{
		Temperature:  &celsius,
		TemperatureC: &celsius,
		TemperatureF: &fahrenheit,
		Timestamp:    &timestamp,
		DeviceID:     record.DeviceID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error encoding telemetry")
	}
	return body, nil
}

// DecodeTelemetry accepts temperature_c or its alias temperature; a payload with neither is malformed.
// Unknown fields are ignored.
func DecodeTelemetry(body []byte) (entities.TelemetryRecord, error) {
	message := TelemetryMessage{}
	if err := json.Unmarshal(body, &message); err != nil {
		return entities.TelemetryRecord{}, errors.Wrapf(ErrMalformedPayload, "telemetry is not valid JSON: %v", err)
	}

	celsius := message.TemperatureC
	if celsius == nil {
		celsius = message.Temperature
	}
	if celsius == nil {
		return entities.TelemetryRecord{}, errors.Wrap(ErrMalformedPayload, "temperature value missing in telemetry")
	}

	record := entities.TelemetryRecord{
		TemperatureC: *celsius,
		TemperatureF: message.TemperatureF,
		DeviceID:     message.DeviceID,
	}
	if message.Timestamp != nil {
		record.Timestamp = *message.Timestamp
	}
	return record, nil
}

func EncodeCommand(command entities.CommandRecord) ([]byte, error) {
	ledOn := command.LEDOn
	body, err := json.Marshal(CommandMessage{LEDOn: &ledOn})
	if err != nil {
		return nil, errors.Wrap(err, "error encoding command")
	}
	return body, nil
}

func DecodeCommand(body []byte) (entities.CommandRecord, error) {
	message := CommandMessage{}
	if err := json.Unmarshal(body, &message); err != nil {
		return entities.CommandRecord{}, errors.Wrapf(ErrMalformedPayload, "command is not valid JSON: %v", err)
	}
	if message.LEDOn == nil {
		return entities.CommandRecord{}, errors.Wrap(ErrMalformedPayload, "led_on value missing in command")
	}
	return entities.CommandRecord{LEDOn: *message.LEDOn}, nil
}
