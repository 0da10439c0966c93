package topics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicNames(t *testing.T) {
	assert.Equal(t, "willasp/telemetry", Telemetry("willasp"))
	assert.Equal(t, "willasp/commands", Command("willasp"))
}

func TestTopicsAreDistinctAndDeterministic(t *testing.T) {
	for _, id := range []string{"a", "willasp", "test_device_001", "4b1f3c1e-8d0e-4c55-9d62-5b0c35f1d0a7", "x/y"} {
		assert.NotEqual(t, Telemetry(id), Command(id), id)
		assert.Equal(t, Telemetry(id), Telemetry(id), id)
		assert.Equal(t, Command(id), Command(id), id)
	}
}

func TestMismatchedIdentitiesNeverMeet(t *testing.T) {
	assert.NotEqual(t, Telemetry("node-a"), Telemetry("node-b"))
	assert.NotEqual(t, Command("node-a"), Command("node-b"))
}
