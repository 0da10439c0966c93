package hardware

import (
	"sync"

	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	gpiod "github.com/warthog618/go-gpiocdev"
)

type outputLine interface {
	SetValue(value int) error
	Close() error
}

// GPIOLed drives an LED wired to one output line of a GPIO chip.
type GPIOLed struct {
	lock     sync.Mutex
	line     outputLine
	chip     interface{ Close() error }
	released bool
	log      *logrus.Entry
}

func NewGPIOLed(conf entities.ActuatorConfig, log *logrus.Entry) (*GPIOLed, error) {
	chip, err := gpiod.NewChip(conf.Chip)
	if err != nil {
		return nil, errors.Wrapf(ErrActuator, "open chip %s: %v", conf.Chip, err)
	}
	line, err := chip.RequestLine(conf.Pin, gpiod.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, errors.Wrapf(ErrActuator, "request line %d: %v", conf.Pin, err)
	}
	log.Infof("LED on %s line %d", conf.Chip, conf.Pin)
	return newGPIOLed(line, chip, log), nil
}

func newGPIOLed(line outputLine, chip interface{ Close() error }, log *logrus.Entry) *GPIOLed {
	return &GPIOLed{line: line, chip: chip, log: log}
}

func (l *GPIOLed) Apply(on bool) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.released {
		return errors.Wrap(ErrActuator, "LED already released")
	}
	if err := l.line.SetValue(lineValue(on)); err != nil {
		return errors.Wrap(ErrActuator, err.Error())
	}
	l.log.Debugf("LED set to %t", on)
	return nil
}

func (l *GPIOLed) Release() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.released {
		return nil
	}
	l.released = true

	var failures []string
	if err := l.line.SetValue(0); err != nil {
		failures = append(failures, "switch off: "+err.Error())
	}
	if err := l.line.Close(); err != nil {
		failures = append(failures, "close line: "+err.Error())
	}
	if l.chip != nil {
		if err := l.chip.Close(); err != nil {
			failures = append(failures, "close chip: "+err.Error())
		}
	}
	if len(failures) > 0 {
		return errors.Wrapf(ErrActuator, "release: %v", failures)
	}
	return nil
}

func lineValue(on bool) int {
	if on {
		return 1
	}
	return 0
}

// LogActuator stands in for the LED on hosts without GPIO and only logs the requested state.
type LogActuator struct {
	lock sync.Mutex
	on   bool
	log  *logrus.Entry
}

func NewLogActuator(log *logrus.Entry) *LogActuator {
	return &LogActuator{log: log}
}

func (a *LogActuator) Apply(on bool) error {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.on = on
	a.log.Infof("LED %s", onOff(on))
	return nil
}

func (a *LogActuator) Release() error {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.on {
		a.log.Infof("LED %s", onOff(false))
	}
	a.on = false
	return nil
}

// On reports the last applied state.
func (a *LogActuator) On() bool {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.on
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
