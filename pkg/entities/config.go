package entities

import "time"

const (
	TransportMQTT = "mqtt"
	TransportAMQP = "amqp"

	SensorOneWire   = "onewire"
	SensorSimulated = "simulated"

	ActuatorGPIO = "gpio"
	ActuatorLog  = "log"
)

type Config struct {
	Broker     BrokerConfig     `yaml:"broker"`
	Device     DeviceIdentity   `yaml:"device"`
	Sensor     SensorConfig     `yaml:"sensor"`
	Actuator   ActuatorConfig   `yaml:"actuator"`
	Loop       LoopConfig       `yaml:"loop"`
	Controller ControllerConfig `yaml:"controller"`
	Log        LogConfig        `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type BrokerConfig struct {
	Transport      string        `yaml:"transport"`
	URL            string        `yaml:"url"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	QoS            byte          `yaml:"qos"`
	Exchange       string        `yaml:"exchange"`
	ConfirmTimeout time.Duration `yaml:"confirmTimeout"`
	KeepAlive      time.Duration `yaml:"keepAlive"`
	ConnectRetries uint64        `yaml:"connectRetries"`
}

type SensorConfig struct {
	Kind          string        `yaml:"kind"`
	BaseDir       string        `yaml:"baseDir"`
	DevicePrefix  string        `yaml:"devicePrefix"`
	Retries       uint64        `yaml:"retries"`
	RetryInterval time.Duration `yaml:"retryInterval"`
	LoadModules   bool          `yaml:"loadModules"`
}

type ActuatorConfig struct {
	Kind string `yaml:"kind"`
	Chip string `yaml:"chip"`
	Pin  int    `yaml:"pin"`
}

type LoopConfig struct {
	Interval       time.Duration `yaml:"interval"`
	ConfirmPublish bool          `yaml:"confirmPublish"`
}

type ControllerConfig struct {
	ThresholdC                 float64 `yaml:"thresholdC"`
	DuplicationFilter          bool    `yaml:"duplicationFilter"`
	FilterCapacity             uint    `yaml:"filterCapacity"`
	DuplicationProbability     float64 `yaml:"duplicationProbability"`
	ResetFilterUsagePercentage float32 `yaml:"resetFilterUsagePercentage"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Address string `yaml:"address"`
}

// DefaultConfig returns the reference behaviour: public mosquitto broker, 3 s cadence, 25 °C threshold.
func DefaultConfig() Config {
	return Config{
		Broker: BrokerConfig{
			Transport:      TransportMQTT,
			URL:            "tcp://test.mosquitto.org:1883",
			QoS:            1,
			Exchange:       "thermo.topics",
			ConfirmTimeout: 5 * time.Second,
			KeepAlive:      30 * time.Second,
		},
		Sensor: SensorConfig{
			Kind:          SensorOneWire,
			BaseDir:       "/sys/bus/w1/devices/",
			DevicePrefix:  "28",
			Retries:       5,
			RetryInterval: 200 * time.Millisecond,
		},
		Actuator: ActuatorConfig{
			Kind: ActuatorGPIO,
			Chip: "gpiochip0",
			Pin:  17,
		},
		Loop: LoopConfig{
			Interval:       3 * time.Second,
			ConfirmPublish: true,
		},
		Controller: ControllerConfig{
			ThresholdC:                 25.0,
			FilterCapacity:             1000000,
			DuplicationProbability:     0.01,
			ResetFilterUsagePercentage: 75,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
