// Package app holds the process wiring shared by the node and controller binaries.
package app

import (
	"context"
	"os"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/google/uuid"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/gateways/session"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/logging"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/metrics"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/topics"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const maxConnectInterval = 30 * time.Second

// Process is a loaded configuration with its logger factory.
type Process struct {
	Conf   entities.Config
	Logger *logging.Logrus
}

// Load reads the configuration and fills in a device identity when none is configured.
func Load(configPath string) (*Process, error) {
	conf, err := utils.LoadConfiguration(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	conf.Device = EnsureIdentity(conf.Device)
	logger := logging.NewLogrus(conf.Log.Level, os.Stderr).WithFormat(conf.Log.Format)
	return &Process{Conf: conf, Logger: logger}, nil
}

// EnsureIdentity generates a random identity when id is empty. The generated id must be shared with the other end
// of the pair, so it is always logged at startup.
func EnsureIdentity(device entities.DeviceIdentity) entities.DeviceIdentity {
	if device.ID == "" {
		device.ID = uuid.NewString()
	}
	return device
}

// Announce logs the identity and the topics of this process.
func (p *Process) Announce(log *logrus.Entry, clientName string) {
	log.Infof("device id: %s", p.Conf.Device.ID)
	log.Infof("client name: %s", clientName)
	log.Infof("telemetry topic: %s", topics.Telemetry(p.Conf.Device.ID))
	log.Infof("command topic: %s", topics.Command(p.Conf.Device.ID))
}

// Connect opens the session, retrying up to broker.connectRetries times with exponential backoff. A cancelled ctx
// yields an error matching context.Canceled.
func (p *Process) Connect(ctx context.Context, suffix string, log *logrus.Entry) (*session.Session, error) {
	clientName := p.Conf.Device.ClientName(suffix)
	p.Announce(log, clientName)
	return connectWithRetry(ctx, p.Conf.Broker.ConnectRetries, log, func() (*session.Session, error) {
		return session.Connect(p.Conf.Broker, p.Conf.Device, clientName, log)
	})
}

// ServeMetrics exposes the counters in the background when metrics.address is set.
func (p *Process) ServeMetrics(ctx context.Context, log *logrus.Entry) {
	if p.Conf.Metrics.Address == "" {
		return
	}
	go func() {
		if err := metrics.Serve(ctx, p.Conf.Metrics.Address, log); err != nil {
			log.Errorf("metrics: %v", err)
		}
	}()
}

// Interrupted reports whether err only reflects a shutdown request.
func Interrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

func connectWithRetry(ctx context.Context, retries uint64, log *logrus.Entry, connect func() (*session.Session, error)) (*session.Session, error) {
	var s *session.Session
	operation := func() error {
		var err error
		s, err = connect()
		return err
	}
	notify := func(err error, next time.Duration) {
		log.Warnf("connection failed, retrying in %s: %v", next.Round(time.Millisecond), err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = maxConnectInterval
	policy.MaxElapsedTime = 0
	if err := backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(policy, retries), ctx), notify); err != nil {
		// backoff reports the last attempt's error, a shutdown request takes precedence
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrapf(ctxErr, "connect aborted after: %v", err)
		}
		return nil, err
	}
	return s, nil
}
