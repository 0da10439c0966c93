package network

import (
	"math"
	"testing"

	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeTelemetryCarriesAliasAndBothUnits(t *testing.T) {
	record := entities.NewTelemetryRecord(entities.Reading{Celsius: 23.44, Fahrenheit: 74.19}, 1000, "willasp")

	body, err := EncodeTelemetry(record)

	require.NoError(t, err)
	assert.JSONEq(t, `{"temperature": 23.44, "temperature_c": 23.44, "temperature_f": 74.19, "timestamp": 1000, "device_id": "willasp"}`, string(body))
}

func TestTelemetryRoundTrip(t *testing.T) {
	for _, celsius := range []float64{-12.5, 0, 19.99, 25, 31.062} {
		record := entities.TelemetryRecord{TemperatureC: celsius, Timestamp: 1700000000.25}

		body, err := EncodeTelemetry(record)
		require.NoError(t, err)
		decoded, err := DecodeTelemetry(body)
		require.NoError(t, err)

		assert.InDelta(t, celsius, decoded.TemperatureC, 1e-9)
		assert.InDelta(t, entities.CelsiusToFahrenheit(decoded.TemperatureC), decoded.Fahrenheit(), 0.01)
		assert.Equal(t, record.Timestamp, decoded.Timestamp)
	}
}

func TestDecodeTelemetryAcceptsPlainTemperature(t *testing.T) {
	record, err := DecodeTelemetry([]byte(`{"temperature": 30, "timestamp": 1000}`))

	assert.NoError(t, err)
	assert.Equal(t, 30.0, record.TemperatureC)
	assert.Nil(t, record.TemperatureF)
	assert.Equal(t, 86.0, record.Fahrenheit())
	assert.Equal(t, 1000.0, record.Timestamp)
}

func TestDecodeTelemetryPrefersCelsiusField(t *testing.T) {
	record, err := DecodeTelemetry([]byte(`{"temperature": 30, "temperature_c": 21.5}`))

	assert.NoError(t, err)
	assert.Equal(t, 21.5, record.TemperatureC)
}

func TestDecodeTelemetryToleratesUnknownFields(t *testing.T) {
	record, err := DecodeTelemetry([]byte(`{"temperature": 22, "led_state": true, "humidity": 40}`))

	assert.NoError(t, err)
	assert.Equal(t, 22.0, record.TemperatureC)
}

var malformedTelemetry = []string{
	`{"timestamp": 1000}`,
	`{"temperature": null}`,
	`{"temperature": "hot"}`,
	`not json`,
	`[1, 2]`,
	`null`,
	``,
}

func TestDecodeTelemetryWhenMalformedThenError(t *testing.T) {
	for _, body := range malformedTelemetry {
		_, err := DecodeTelemetry([]byte(body))
		assert.ErrorIs(t, err, ErrMalformedPayload, body)
	}
}

func TestEncodeTelemetryWhenNotANumberThenError(t *testing.T) {
	_, err := EncodeTelemetry(entities.TelemetryRecord{TemperatureC: math.NaN()})
	assert.Error(t, err)
}

func TestCommandRoundTrip(t *testing.T) {
	for _, ledOn := range []bool{true, false} {
		body, err := EncodeCommand(entities.CommandRecord{LEDOn: ledOn})
		require.NoError(t, err)
		command, err := DecodeCommand(body)
		require.NoError(t, err)
		assert.Equal(t, ledOn, command.LEDOn)
	}
}

func TestEncodeCommandWireShape(t *testing.T) {
	body, err := EncodeCommand(entities.CommandRecord{LEDOn: true})

	assert.NoError(t, err)
	assert.JSONEq(t, `{"led_on": true}`, string(body))
}

func TestDecodeCommandWhenMalformedThenError(t *testing.T) {
	for _, body := range []string{`{}`, `{"led_on": "yes"}`, `{"led": true}`, `garbage`} {
		_, err := DecodeCommand([]byte(body))
		assert.ErrorIs(t, err, ErrMalformedPayload, body)
	}
}
