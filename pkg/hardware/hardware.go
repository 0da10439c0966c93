// Package hardware adapts the temperature probe and the indicator LED of a node.
package hardware

import (
	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrSensorUnavailable means no probe was found or its device file cannot be opened.
	ErrSensorUnavailable = errors.New("temperature sensor unavailable")
	// ErrSensorRead means the probe answered but never reported a valid reading.
	ErrSensorRead = errors.New("temperature sensor read failed")
	ErrActuator   = errors.New("actuator failure")
)

// SensorSource produces one reading per call.
type SensorSource interface {
	Read() (entities.Reading, error)
}

// ActuatorSink drives the indicator. Release returns it to off and may be called more than once.
type ActuatorSink interface {
	Apply(on bool) error
	Release() error
}

// NewSensor builds the sensor selected by conf.Kind.
func NewSensor(conf entities.SensorConfig, log *logrus.Entry) (SensorSource, error) {
	switch conf.Kind {
	case entities.SensorOneWire:
		sensor := NewOneWireSensor(conf, log)
		if conf.LoadModules {
			sensor.LoadModules()
		}
		return sensor, nil
	case entities.SensorSimulated:
		return NewSimulatedSensor(), nil
	default:
		return nil, errors.Errorf("unknown sensor kind %q", conf.Kind)
	}
}

// NewActuator builds the actuator selected by conf.Kind.
func NewActuator(conf entities.ActuatorConfig, log *logrus.Entry) (ActuatorSink, error) {
	switch conf.Kind {
	case entities.ActuatorGPIO:
		return NewGPIOLed(conf, log)
	case entities.ActuatorLog:
		return NewLogActuator(log), nil
	default:
		return nil, errors.Errorf("unknown actuator kind %q", conf.Kind)
	}
}
