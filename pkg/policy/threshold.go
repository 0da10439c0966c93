package policy

// DefaultThresholdC is the temperature above which the LED is switched on.
const DefaultThresholdC = 25.0

// Decide reports whether the output must be on. Strict: a reading equal to the threshold is off.
func Decide(temperatureC, thresholdC float64) bool {
	return temperatureC > thresholdC
}

// Threshold binds Decide to a fixed threshold for the lifetime of a loop.
type Threshold struct {
	Celsius float64
}

func NewThreshold(celsius float64) Threshold {
	return Threshold{Celsius: celsius}
}

func (t Threshold) Decide(temperatureC float64) bool {
	return Decide(temperatureC, t.Celsius)
}
