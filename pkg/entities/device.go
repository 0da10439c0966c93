package entities

import "math"

// Session lifecycle states
const (
	SessionDisconnected  string = "disconnected"
	SessionConnecting    string = "connecting"
	SessionConnected     string = "connected"
	SessionSubscribed    string = "subscribed"
	SessionDisconnecting string = "disconnecting"
)

const (
	NodeClientSuffix       = "_temperature_client"
	ControllerClientSuffix = "_temperature_server"
)

// DeviceIdentity names one logical device. Both ends of a device pair must share it.
type DeviceIdentity struct {
	ID string `yaml:"id"`
}

// ClientName builds the broker client name of an endpoint serving this device.
func (d DeviceIdentity) ClientName(suffix string) string {
	return d.ID + suffix
}

type Reading struct {
	Celsius    float64
	Fahrenheit float64
}

type TelemetryRecord struct {
	TemperatureC float64
	TemperatureF *float64
	Timestamp    float64
	DeviceID     string
}

type CommandRecord struct {
	LEDOn bool
}

// NewTelemetryRecord builds a record from a sensor reading taken at timestamp (epoch seconds).
func NewTelemetryRecord(reading Reading, timestamp float64, deviceID string) TelemetryRecord {
	fahrenheit := reading.Fahrenheit
	return TelemetryRecord{
		TemperatureC: reading.Celsius,
		TemperatureF: &fahrenheit,
		Timestamp:    timestamp,
		DeviceID:     deviceID,
	}
}

// Fahrenheit returns the reported value, or derives it from the celsius value when absent.
func (t TelemetryRecord) Fahrenheit() float64 {
	if t.TemperatureF != nil {
		return *t.TemperatureF
	}
	return CelsiusToFahrenheit(t.TemperatureC)
}

func CelsiusToFahrenheit(celsius float64) float64 {
	return celsius*9.0/5.0 + 32.0
}

// RoundTo2 rounds to two decimal places, the precision reported by the sensor.
func RoundTo2(value float64) float64 {
	return math.Round(value*100) / 100
}
