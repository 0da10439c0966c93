package hardware

import (
	"errors"
	"testing"
	"time"

	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fakeBaseDir    = "/sys/bus/w1/devices/"
	fakeDeviceDir  = "/sys/bus/w1/devices/28-00000a1b2c3d"
	fakeDeviceFile = "/sys/bus/w1/devices/28-00000a1b2c3d/w1_slave"
	readyPayload   = "72 01 4b 46 7f ff 0e 10 57 : crc=57 YES\n72 01 4b 46 7f ff 0e 10 57 t=23125\n"
	busyPayload    = "72 01 4b 46 7f ff 0e 10 57 : crc=00 NO\n72 01 4b 46 7f ff 0e 10 57 t=23125\n"
)

func createNullLogger() *logrus.Entry {
	log, _ := test.NewNullLogger()
	return log.WithFields(logrus.Fields{
		"Context": "testing",
	})
}

func createFakeSensorConfig() entities.SensorConfig {
	return entities.SensorConfig{
		Kind:          entities.SensorOneWire,
		BaseDir:       fakeBaseDir,
		DevicePrefix:  "28",
		Retries:       2,
		RetryInterval: time.Millisecond,
	}
}

func TestOneWireRead(t *testing.T) {
	fs := new(fileManagementMock)
	fs.On("glob", "/sys/bus/w1/devices/28*").Return([]string{fakeDeviceDir}, nil)
	fs.On("readFile", fakeDeviceFile).Return([]byte(readyPayload), nil).Once()
	sensor := newOneWireSensor(createFakeSensorConfig(), fs, createNullLogger())

	reading, err := sensor.Read()

	require.NoError(t, err)
	assert.Equal(t, 23.13, reading.Celsius)
	assert.Equal(t, 73.63, reading.Fahrenheit)
	fs.AssertExpectations(t)
}

func TestOneWireReadRetriesUntilReady(t *testing.T) {
	fs := new(fileManagementMock)
	fs.On("glob", "/sys/bus/w1/devices/28*").Return([]string{fakeDeviceDir}, nil)
	fs.On("readFile", fakeDeviceFile).Return([]byte(busyPayload), nil).Once()
	fs.On("readFile", fakeDeviceFile).Return([]byte(readyPayload), nil).Once()
	sensor := newOneWireSensor(createFakeSensorConfig(), fs, createNullLogger())

	reading, err := sensor.Read()

	require.NoError(t, err)
	assert.Equal(t, 23.13, reading.Celsius)
	fs.AssertNumberOfCalls(t, "readFile", 2)
}

func TestOneWireReadWhenNeverReadyThenReadError(t *testing.T) {
	fs := new(fileManagementMock)
	fs.On("glob", "/sys/bus/w1/devices/28*").Return([]string{fakeDeviceDir}, nil)
	fs.On("readFile", fakeDeviceFile).Return([]byte(busyPayload), nil)
	sensor := newOneWireSensor(createFakeSensorConfig(), fs, createNullLogger())

	_, err := sensor.Read()

	assert.ErrorIs(t, err, ErrSensorRead)
	fs.AssertNumberOfCalls(t, "readFile", 3)
}

func TestOneWireReadWhenNoProbeThenUnavailable(t *testing.T) {
	fs := new(fileManagementMock)
	fs.On("glob", "/sys/bus/w1/devices/28*").Return([]string{}, nil)
	sensor := newOneWireSensor(createFakeSensorConfig(), fs, createNullLogger())

	_, err := sensor.Read()

	assert.ErrorIs(t, err, ErrSensorUnavailable)
	fs.AssertNotCalled(t, "readFile", fakeDeviceFile)
}

func TestOneWireReadWhenFileVanishesThenUnavailableWithoutRetry(t *testing.T) {
	fs := new(fileManagementMock)
	fs.On("glob", "/sys/bus/w1/devices/28*").Return([]string{fakeDeviceDir}, nil)
	fs.On("readFile", fakeDeviceFile).Return(nil, errors.New("no such file or directory"))
	sensor := newOneWireSensor(createFakeSensorConfig(), fs, createNullLogger())

	_, err := sensor.Read()

	assert.ErrorIs(t, err, ErrSensorUnavailable)
	fs.AssertNumberOfCalls(t, "readFile", 1)
}

func TestParseTemperatureWhenValueMissingThenReadError(t *testing.T) {
	_, err := parseTemperature([]string{"crc=57 YES", "72 01 4b 46 7f ff 0e 10 57"})
	assert.ErrorIs(t, err, ErrSensorRead)

	_, err = parseTemperature([]string{"crc=57 YES", "t=abc"})
	assert.ErrorIs(t, err, ErrSensorRead)

	_, err = parseTemperature([]string{"crc=57 YES"})
	assert.ErrorIs(t, err, ErrSensorRead)
}

func TestParseTemperatureBelowZero(t *testing.T) {
	reading, err := parseTemperature([]string{"crc=57 YES", "t=-1500"})

	require.NoError(t, err)
	assert.Equal(t, -1.5, reading.Celsius)
	assert.Equal(t, 29.3, reading.Fahrenheit)
}

func TestLoadModules(t *testing.T) {
	fs := new(fileManagementMock)
	fs.On("loadKernelModule", "w1-gpio").Return(nil)
	fs.On("loadKernelModule", "w1-therm").Return(errors.New("exit status 1"))
	sensor := newOneWireSensor(createFakeSensorConfig(), fs, createNullLogger())

	sensor.LoadModules()

	fs.AssertExpectations(t)
}

func TestSimulatedSensorStaysInRange(t *testing.T) {
	sensor := newSimulatedSensor(42)
	for i := 0; i < 100; i++ {
		reading, err := sensor.Read()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, reading.Celsius, simulatedMinimumC)
		assert.LessOrEqual(t, reading.Celsius, simulatedMaximumC)
		assert.InDelta(t, entities.CelsiusToFahrenheit(reading.Celsius), reading.Fahrenheit, 0.02)
	}
}

func TestNewSensorSelectsKind(t *testing.T) {
	sensor, err := NewSensor(createFakeSensorConfig(), createNullLogger())
	require.NoError(t, err)
	assert.IsType(t, &OneWireSensor{}, sensor)

	sensor, err = NewSensor(entities.SensorConfig{Kind: entities.SensorSimulated}, createNullLogger())
	require.NoError(t, err)
	assert.IsType(t, &SimulatedSensor{}, sensor)

	_, err = NewSensor(entities.SensorConfig{Kind: "thermistor"}, createNullLogger())
	assert.Error(t, err)
}
