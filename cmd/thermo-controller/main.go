// Command thermo-controller answers the telemetry of one node with LED commands derived from a temperature
// threshold.
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
)

func main() {
	configPath := flag.String("config", "", "configuration file (default $THERMO_CONFIG_FILEPATH or thermo.yaml)")
	flag.Parse()

	process, err := app.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := process.Logger.Get("Controller")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	process.ServeMetrics(ctx, process.Logger.Get("Metrics"))

	s, err := process.Connect(ctx, entities.ControllerClientSuffix, process.Logger.Get("Session"))
	if err != nil {
		if app.Interrupted(err) {
			log.Info("interrupted while connecting")
			return
		}
		log.Fatalf("connecting to %s: %v", process.Conf.Broker.URL, err)
	}

	loop := control.NewControllerLoop(s, process.Conf.Controller, process.Conf.Loop.ConfirmPublish, log)
	if err := loop.Run(ctx); err != nil {
		log.Fatal(err)
	}
	log.Info("stopped")
}
