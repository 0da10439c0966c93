package control

import (
	"fmt"

	bloomFilter "github.com/bits-and-blooms/bloom/v3"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
)

const (
	defaultFilterCapacity         = 1000000
	defaultDuplicationProbability = 0.01
	defaultResetPercentage        = 75
)

// duplicationFilter remembers the readings already answered. It is cleared once its estimated fill reaches
// maximumPercentageUsage of capacity so the false positive rate stays bounded.
type duplicationFilter struct {
	filter                 *bloomFilter.BloomFilter
	capacity               uint
	maximumPercentageUsage float32
}

func newDuplicationFilter(capacity uint, probability float64, maximumPercentageUsage float32) *duplicationFilter {
	if capacity == 0 {
		capacity = defaultFilterCapacity
	}
	if probability <= 0 || probability >= 1 {
		probability = defaultDuplicationProbability
	}
	if maximumPercentageUsage <= 0 {
		maximumPercentageUsage = defaultResetPercentage
	}
	return &duplicationFilter{
		filter:                 bloomFilter.NewWithEstimates(capacity, probability),
		capacity:               capacity,
		maximumPercentageUsage: maximumPercentageUsage,
	}
}

// isDuplicated reports whether key was seen before and records it otherwise.
func (f *duplicationFilter) isDuplicated(key string) bool {
	if f.filter.TestString(key) {
		return true
	}
	f.resetWhenFull()
	f.filter.AddString(key)
	return false
}

func (f *duplicationFilter) resetWhenFull() {
	currentPercentageUsage := (float32(f.filter.ApproximatedSize()) / float32(f.capacity)) * 100
	if currentPercentageUsage >= f.maximumPercentageUsage {
		f.filter.ClearAll()
	}
}

func duplicationKey(record entities.TelemetryRecord) string {
	return fmt.Sprintf("%s_%v", record.DeviceID, record.Timestamp)
}
