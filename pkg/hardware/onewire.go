package hardware

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	slaveFile          = "w1_slave"
	readyMarker        = "YES"
	temperatureMarker  = "t="
	defaultRetryPeriod = 200 * time.Millisecond
)

var kernelModules = []string{"w1-gpio", "w1-therm"}

var errNotReady = errors.New("sensor not ready")

// OneWireSensor reads a DS18B20 probe exposed by the w1-therm driver.
type OneWireSensor struct {
	conf entities.SensorConfig
	fs   filesystemManagement
	log  *logrus.Entry
}

func NewOneWireSensor(conf entities.SensorConfig, log *logrus.Entry) *OneWireSensor {
	return newOneWireSensor(conf, new(fileManagement), log)
}

func newOneWireSensor(conf entities.SensorConfig, fs filesystemManagement, log *logrus.Entry) *OneWireSensor {
	if conf.RetryInterval <= 0 {
		conf.RetryInterval = defaultRetryPeriod
	}
	return &OneWireSensor{conf: conf, fs: fs, log: log}
}

// LoadModules loads the one-wire kernel drivers. Failures are logged since the drivers are often built in.
func (s *OneWireSensor) LoadModules() {
	for _, module := range kernelModules {
		if err := s.fs.loadKernelModule(module); err != nil {
			s.log.Warnf("modprobe %s: %v", module, err)
		}
	}
}

func (s *OneWireSensor) Read() (entities.Reading, error) {
	deviceFile, err := s.deviceFile()
	if err != nil {
		return entities.Reading{}, err
	}

	var lines []string
	operation := func() error {
		raw, readErr := s.fs.readFile(deviceFile)
		if readErr != nil {
			return backoff.Permanent(errors.Wrap(ErrSensorUnavailable, readErr.Error()))
		}
		lines = strings.Split(strings.TrimSpace(string(raw)), "\n")
		if !strings.HasSuffix(strings.TrimSpace(lines[0]), readyMarker) {
			s.log.Debugf("sensor %s not ready", deviceFile)
			return errNotReady
		}
		return nil
	}

	retry := backoff.WithMaxRetries(backoff.NewConstantBackOff(s.conf.RetryInterval), s.conf.Retries)
	if err := backoff.Retry(operation, retry); err != nil {
		if errors.Is(err, errNotReady) {
			return entities.Reading{}, errors.Wrapf(ErrSensorRead, "%s never reported ready", deviceFile)
		}
		return entities.Reading{}, err
	}

	return parseTemperature(lines)
}

func (s *OneWireSensor) deviceFile() (string, error) {
	folders, err := s.fs.glob(filepath.Join(s.conf.BaseDir, s.conf.DevicePrefix+"*"))
	if err != nil {
		return "", errors.Wrap(ErrSensorUnavailable, err.Error())
	}
	if len(folders) == 0 {
		return "", errors.Wrapf(ErrSensorUnavailable, "no %s* device under %s", s.conf.DevicePrefix, s.conf.BaseDir)
	}
	return filepath.Join(folders[0], slaveFile), nil
}

func parseTemperature(lines []string) (entities.Reading, error) {
	if len(lines) < 2 {
		return entities.Reading{}, errors.Wrap(ErrSensorRead, "temperature line missing")
	}
	position := strings.Index(lines[1], temperatureMarker)
	if position == -1 {
		return entities.Reading{}, errors.Wrap(ErrSensorRead, "temperature value missing")
	}
	milli, err := strconv.ParseFloat(strings.TrimSpace(lines[1][position+len(temperatureMarker):]), 64)
	if err != nil {
		return entities.Reading{}, errors.Wrapf(ErrSensorRead, "invalid temperature value: %v", err)
	}

	celsius := milli / 1000.0
	return entities.Reading{
		Celsius:    entities.RoundTo2(celsius),
		Fahrenheit: entities.RoundTo2(entities.CelsiusToFahrenheit(celsius)),
	}, nil
}
