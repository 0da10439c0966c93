// Package topics derives the broker topics a device talks on.
package topics

const (
	telemetrySuffix = "/telemetry"
	commandSuffix   = "/commands"
)

// Telemetry returns the topic sensor readings of device id are published on.
func Telemetry(id string) string {
	return id + telemetrySuffix
}

// Command returns the topic actuation commands for device id are published on.
func Command(id string) string {
	return id + commandSuffix
}
