package utils

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	ConfigFilepathVariable = "THERMO_CONFIG_FILEPATH"
	defaultConfigFilepath  = "thermo.yaml"
)

// LoadConfiguration layers the defaults, the optional YAML file and the environment (a .env file is read first
// when present). An explicit filepathName wins over THERMO_CONFIG_FILEPATH.
func LoadConfiguration(filepathName string) (entities.Config, error) {
	// a missing .env is fine, the process environment is used as is
	_ = godotenv.Load()

	conf := entities.DefaultConfig()
	if filepathName == "" {
		filepathName = getValueFromEnvironmentVariable(ConfigFilepathVariable, defaultConfigFilepath)
	}

	if _, err := os.Stat(filepathName); err == nil {
		conf, err = ConfigurationParser(filepathName, conf)
		if err != nil {
			return conf, errors.Wrapf(err, "parse configuration file %s", filepathName)
		}
	} else if !os.IsNotExist(err) {
		return conf, errors.Wrapf(err, "stat configuration file %s", filepathName)
	}

	if err := applyEnvironment(&conf); err != nil {
		return conf, err
	}

	return conf, ValidateConfiguration(conf)
}

func applyEnvironment(conf *entities.Config) error {
	conf.Broker.URL = getValueFromEnvironmentVariable("BROKER_URL", conf.Broker.URL)
	conf.Broker.Transport = getValueFromEnvironmentVariable("BROKER_TRANSPORT", conf.Broker.Transport)
	conf.Broker.Username = getValueFromEnvironmentVariable("BROKER_USERNAME", conf.Broker.Username)
	conf.Broker.Password = getValueFromEnvironmentVariable("BROKER_PASSWORD", conf.Broker.Password)
	conf.Device.ID = getValueFromEnvironmentVariable("DEVICE_ID", conf.Device.ID)
	conf.Log.Level = getValueFromEnvironmentVariable("LOG_LEVEL", conf.Log.Level)
	conf.Metrics.Address = getValueFromEnvironmentVariable("METRICS_ADDRESS", conf.Metrics.Address)

	if value := os.Getenv("THRESHOLD_C"); value != "" {
		threshold, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.Wrap(err, "THRESHOLD_C environment variable with invalid value")
		}
		conf.Controller.ThresholdC = threshold
	}

	if value := os.Getenv("LOOP_INTERVAL"); value != "" {
		interval, err := time.ParseDuration(value)
		if err != nil {
			return errors.Wrap(err, "LOOP_INTERVAL environment variable with invalid value")
		}
		conf.Loop.Interval = interval
	}

	return nil
}

// ValidateConfiguration rejects values no component can run with.
func ValidateConfiguration(conf entities.Config) error {
	switch conf.Broker.Transport {
	case entities.TransportMQTT, entities.TransportAMQP:
	default:
		return fmt.Errorf("unknown broker transport %q", conf.Broker.Transport)
	}
	if conf.Broker.URL == "" {
		return fmt.Errorf("broker url is required")
	}
	if conf.Broker.QoS > 2 {
		return fmt.Errorf("invalid qos %d", conf.Broker.QoS)
	}
	if conf.Broker.ConfirmTimeout <= 0 {
		return fmt.Errorf("broker confirm timeout must be positive")
	}
	if conf.Loop.Interval <= 0 {
		return fmt.Errorf("loop interval must be positive")
	}

	switch conf.Sensor.Kind {
	case entities.SensorOneWire, entities.SensorSimulated:
	default:
		return fmt.Errorf("unknown sensor kind %q", conf.Sensor.Kind)
	}

	switch conf.Actuator.Kind {
	case entities.ActuatorGPIO, entities.ActuatorLog:
	default:
		return fmt.Errorf("unknown actuator kind %q", conf.Actuator.Kind)
	}

	if conf.Controller.DuplicationFilter {
		if conf.Controller.FilterCapacity == 0 {
			return fmt.Errorf("filter capacity must be positive")
		}
		if conf.Controller.DuplicationProbability <= 0 || conf.Controller.DuplicationProbability >= 1 {
			return fmt.Errorf("duplication probability must be in (0, 1)")
		}
	}

	return nil
}

func getValueFromEnvironmentVariable(variableName, defaultValue string) string {
	value := os.Getenv(variableName)
	if value != "" {
		return value
	}
	return defaultValue
}
