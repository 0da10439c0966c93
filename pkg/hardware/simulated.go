package hardware

import (
	"math/rand"
	"sync"
	"time"

	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
)

const (
	simulatedMinimumC = 20.0
	simulatedMaximumC = 30.0
)

// SimulatedSensor draws uniform readings between 20 and 30 °C for hosts without a probe.
type SimulatedSensor struct {
	lock   sync.Mutex
	random *rand.Rand
}

func NewSimulatedSensor() *SimulatedSensor {
	return newSimulatedSensor(time.Now().UnixNano())
}

func newSimulatedSensor(seed int64) *SimulatedSensor {
	return &SimulatedSensor{random: rand.New(rand.NewSource(seed))}
}

func (s *SimulatedSensor) Read() (entities.Reading, error) {
	s.lock.Lock()
	celsius := simulatedMinimumC + s.random.Float64()*(simulatedMaximumC-simulatedMinimumC)
	s.lock.Unlock()

	return entities.Reading{
		Celsius:    entities.RoundTo2(celsius),
		Fahrenheit: entities.RoundTo2(entities.CelsiusToFahrenheit(celsius)),
	}, nil
}
