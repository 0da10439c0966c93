package control

import (
	"sync"

	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/hardware"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const fakeDeviceID = "willasp"

func createNullLogger() *logrus.Entry {
	log, _ := test.NewNullLogger()
	return log.WithFields(logrus.Fields{
		"Context": "testing",
	})
}

// fakeSensor replays its readings in order and then repeats the last one. A reading of nil means a failure.
type fakeSensor struct {
	lock     sync.Mutex
	readings []*entities.Reading
	reads    int
}

func newFakeSensor(celsius ...float64) *fakeSensor {
	sensor := &fakeSensor{}
	for _, value := range celsius {
		sensor.readings = append(sensor.readings, &entities.Reading{Celsius: value, Fahrenheit: entities.CelsiusToFahrenheit(value)})
	}
	return sensor
}

func (s *fakeSensor) fail() *fakeSensor {
	s.readings = append(s.readings, nil)
	return s
}

func (s *fakeSensor) then(celsius float64) *fakeSensor {
	s.readings = append(s.readings, &entities.Reading{Celsius: celsius, Fahrenheit: entities.CelsiusToFahrenheit(celsius)})
	return s
}

func (s *fakeSensor) Read() (entities.Reading, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	index := s.reads
	if index >= len(s.readings) {
		index = len(s.readings) - 1
	}
	s.reads++
	if s.readings[index] == nil {
		return entities.Reading{}, hardware.ErrSensorRead
	}
	return *s.readings[index], nil
}

// recordingActuator keeps every applied state and the order of teardown calls.
type recordingActuator struct {
	lock     sync.Mutex
	applied  []bool
	releases int
	events   *[]string
}

func (a *recordingActuator) Apply(on bool) error {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.applied = append(a.applied, on)
	return nil
}

func (a *recordingActuator) Release() error {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.releases++
	if a.events != nil {
		*a.events = append(*a.events, "release")
	}
	return nil
}

func (a *recordingActuator) states() []bool {
	a.lock.Lock()
	defer a.lock.Unlock()
	return append([]bool(nil), a.applied...)
}

func (a *recordingActuator) last() (bool, bool) {
	a.lock.Lock()
	defer a.lock.Unlock()
	if len(a.applied) == 0 {
		return false, false
	}
	return a.applied[len(a.applied)-1], true
}
