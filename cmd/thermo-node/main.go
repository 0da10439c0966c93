// Command thermo-node samples the temperature probe, publishes telemetry and drives the LED from the commands it
// receives.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/janael-pinheiro/thermo-link-golang/pkg/app"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/control"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/entities"
	"github.com/janael-pinheiro/thermo-link-golang/pkg/hardware"
)

func main() {
	configPath := flag.String("config", "", "configuration file (default $THERMO_CONFIG_FILEPATH or thermo.yaml)")
	flag.Parse()

	process, err := app.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := process.Logger.Get("Node")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	process.ServeMetrics(ctx, process.Logger.Get("Metrics"))

	sensor, err := hardware.NewSensor(process.Conf.Sensor, process.Logger.Get("Sensor"))
	if err != nil {
		log.Fatalf("sensor: %v", err)
	}
	actuator, err := hardware.NewActuator(process.Conf.Actuator, process.Logger.Get("LED"))
	if err != nil {
		log.Fatalf("actuator: %v", err)
	}

	s, err := process.Connect(ctx, entities.NodeClientSuffix, process.Logger.Get("Session"))
	if err != nil {
		_ = actuator.Release()
		if app.Interrupted(err) {
			log.Info("interrupted while connecting")
			return
		}
		log.Fatalf("connecting to %s: %v", process.Conf.Broker.URL, err)
	}

	loop := control.NewDeviceLoop(s, sensor, actuator, process.Conf.Loop, log)
	if err := loop.Run(ctx); err != nil {
		log.Fatal(err)
	}
	log.Info("stopped")
}
