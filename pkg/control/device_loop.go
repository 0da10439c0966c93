package control

import (
	"context"
	"sync"
	"time"

	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/hardware"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const defaultInterval = 3 * time.Second

// DeviceLoop publishes one reading per interval and applies every command it receives to the actuator.
type DeviceLoop struct {
	session  nodeSession
	sensor   hardware.SensorSource
	actuator hardware.ActuatorSink
	conf     entities.LoopConfig
	log      *logrus.Entry
	now      func() time.Time
	teardown sync.Once
}

func NewDeviceLoop(session nodeSession, sensor hardware.SensorSource, actuator hardware.ActuatorSink, conf entities.LoopConfig, log *logrus.Entry) *DeviceLoop {
	if conf.Interval <= 0 {
		conf.Interval = defaultInterval
	}
	return &DeviceLoop{
		session:  session,
		sensor:   sensor,
		actuator: actuator,
		conf:     conf,
		log:      log,
		now:      time.Now,
	}
}

// Run blocks until ctx is cancelled, then tears the loop down. Only a failed command subscription is returned.
func (d *DeviceLoop) Run(ctx context.Context) error {
	defer d.Close()

	if err := d.actuator.Apply(false); err != nil {
		d.log.Warnf("switching LED off at startup: %v", err)
	}
	if err := d.session.SubscribeCommands(d.handleCommand); err != nil {
		return errors.Wrap(err, "subscribe to commands")
	}

	ticker := time.NewTicker(d.conf.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		d.cycle()

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Close releases the session and then the actuator. Only the first call has an effect.
func (d *DeviceLoop) Close() error {
	var err error
	d.teardown.Do(func() {
		d.log.Info("shutting down device loop")
		if closeErr := d.session.Close(); closeErr != nil {
			d.log.Errorf("closing session: %v", closeErr)
			err = closeErr
		}
		if releaseErr := d.actuator.Release(); releaseErr != nil {
			d.log.Errorf("releasing actuator: %v", releaseErr)
			if err == nil {
				err = releaseErr
			}
		}
	})
	return err
}

func (d *DeviceLoop) cycle() {
	reading, err := d.sensor.Read()
	if err != nil {
		metrics.SensorFailures.Inc()
		d.log.Errorf("reading sensor: %v", err)
		return
	}

	timestamp := float64(d.now().UnixNano()) / float64(time.Second)
	record := entities.NewTelemetryRecord(reading, timestamp, d.session.Device().ID)
	if err := d.session.PublishTelemetry(record, d.conf.ConfirmPublish); err != nil {
		d.log.Errorf("publishing telemetry: %v", err)
		return
	}
	d.log.Infof("published %.2f °C / %.2f °F", reading.Celsius, reading.Fahrenheit)
}

func (d *DeviceLoop) handleCommand(command entities.CommandRecord) error {
	if err := d.actuator.Apply(command.LEDOn); err != nil {
		return err
	}
	d.log.Infof("LED turned %s", onOff(command.LEDOn))
	return nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
