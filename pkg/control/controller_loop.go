package control

import (
	"context"
	"sync"

	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/metrics"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/policy"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ControllerLoop answers every telemetry report with one command derived from the threshold policy.
type ControllerLoop struct {
	session   controllerSession
	threshold policy.Threshold
	confirm   bool
	filter    *duplicationFilter
	log       *logrus.Entry
	teardown  sync.Once
}

func NewControllerLoop(session controllerSession, conf entities.ControllerConfig, confirm bool, log *logrus.Entry) *ControllerLoop {
	loop := &ControllerLoop{
		session:   session,
		threshold: policy.NewThreshold(conf.ThresholdC),
		confirm:   confirm,
		log:       log,
	}
	if conf.DuplicationFilter {
		loop.filter = newDuplicationFilter(conf.FilterCapacity, conf.DuplicationProbability, conf.ResetFilterUsagePercentage)
	}
	return loop
}

// Run subscribes to the device telemetry and blocks until ctx is cancelled.
func (c *ControllerLoop) Run(ctx context.Context) error {
	defer c.Close()

	if err := c.session.SubscribeTelemetry(c.handleTelemetry); err != nil {
		return errors.Wrap(err, "subscribe to telemetry")
	}
	c.log.Infof("controlling %s with threshold %.2f °C", c.session.Device().ID, c.threshold.Celsius)

	<-ctx.Done()
	return nil
}

func (c *ControllerLoop) Close() error {
	var err error
	c.teardown.Do(func() {
		c.log.Info("shutting down controller loop")
		if err = c.session.Close(); err != nil {
			c.log.Errorf("closing session: %v", err)
		}
	})
	return err
}

// handleTelemetry runs on the session delivery goroutine, one message at a time.
func (c *ControllerLoop) handleTelemetry(record entities.TelemetryRecord) error {
	if c.filter != nil && record.Timestamp != 0 && c.filter.isDuplicated(duplicationKey(record)) {
		metrics.MessagesDiscarded.WithLabelValues(metrics.ReasonDuplicate).Inc()
		c.log.Debugf("duplicated reading %s discarded", duplicationKey(record))
		return nil
	}

	command := entities.CommandRecord{LEDOn: c.threshold.Decide(record.TemperatureC)}
	c.log.Infof("received %.2f °C / %.2f °F, LED %s", record.TemperatureC, record.Fahrenheit(), onOff(command.LEDOn))

	if err := c.session.PublishCommand(command, c.confirm); err != nil {
		return errors.Wrap(err, "publish command")
	}
	return nil
}
