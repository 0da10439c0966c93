package hardware

import (
	"errors"
	"testing"

	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type outputLineMock struct {
	mock.Mock
}

func (l *outputLineMock) SetValue(value int) error {
	return l.Called(value).Error(0)
}

func (l *outputLineMock) Close() error {
	return l.Called().Error(0)
}

type chipMock struct {
	mock.Mock
}

func (c *chipMock) Close() error {
	return c.Called().Error(0)
}

func TestGPIOLedApply(t *testing.T) {
	line := new(outputLineMock)
	line.On("SetValue", 1).Return(nil).Once()
	line.On("SetValue", 0).Return(nil).Once()
	led := newGPIOLed(line, nil, createNullLogger())

	assert.NoError(t, led.Apply(true))
	assert.NoError(t, led.Apply(false))
	line.AssertExpectations(t)
}

func TestGPIOLedApplyWhenLineFailsThenActuatorError(t *testing.T) {
	line := new(outputLineMock)
	line.On("SetValue", 1).Return(errors.New("device busy"))
	led := newGPIOLed(line, nil, createNullLogger())

	assert.ErrorIs(t, led.Apply(true), ErrActuator)
}

func TestGPIOLedReleaseIsIdempotent(t *testing.T) {
	line := new(outputLineMock)
	line.On("SetValue", 0).Return(nil).Once()
	line.On("Close").Return(nil).Once()
	chip := new(chipMock)
	chip.On("Close").Return(nil).Once()
	led := newGPIOLed(line, chip, createNullLogger())

	assert.NoError(t, led.Release())
	assert.NoError(t, led.Release())
	assert.ErrorIs(t, led.Apply(true), ErrActuator)
	line.AssertExpectations(t)
	chip.AssertExpectations(t)
}

func TestGPIOLedReleaseStillClosesWhenSwitchOffFails(t *testing.T) {
	line := new(outputLineMock)
	line.On("SetValue", 0).Return(errors.New("device busy"))
	line.On("Close").Return(nil).Once()
	led := newGPIOLed(line, nil, createNullLogger())

	assert.ErrorIs(t, led.Release(), ErrActuator)
	line.AssertExpectations(t)
}

func TestLogActuator(t *testing.T) {
	log, hook := test.NewNullLogger()
	actuator := NewLogActuator(log.WithFields(logrus.Fields{"Context": "testing"}))

	assert.NoError(t, actuator.Apply(true))
	assert.True(t, actuator.On())
	assert.Equal(t, "LED on", hook.LastEntry().Message)

	assert.NoError(t, actuator.Release())
	assert.NoError(t, actuator.Release())
	assert.False(t, actuator.On())
	assert.Equal(t, "LED off", hook.LastEntry().Message)
	assert.Len(t, hook.AllEntries(), 2)
}

func TestNewActuatorSelectsKind(t *testing.T) {
	actuator, err := NewActuator(entities.ActuatorConfig{Kind: entities.ActuatorLog}, createNullLogger())
	assert.NoError(t, err)
	assert.IsType(t, &LogActuator{}, actuator)

	_, err = NewActuator(entities.ActuatorConfig{Kind: "relay"}, createNullLogger())
	assert.Error(t, err)
}
