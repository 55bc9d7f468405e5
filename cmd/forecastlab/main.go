package main

import (
	"context"

	"github.com/forecastlab/forecastlab"
	"github.com/forecastlab/forecastlab/core"
	"github.com/forecastlab/forecastlab/plot"
)

// main runs the full strategy benchmark on a synthetic dataset, prints the
// per-strategy losses and the summary, then serves the comparison chart.
func main() {

	// Set up context and logging
	ctx := context.Background()
	log := forecastlab.DefaultLog

	cfg := core.DefaultConfig()

	// Initialize visualization
	chartServer, chart, err := initializeChartServer(cfg, log)
	if err != nil {
		log.Fatal(err)
	}

	// Set up the benchmark
	lab, err := forecastlab.NewLab(cfg,
		forecastlab.WithLogger(log),
		forecastlab.WithChart(chart),
	)
	if err != nil {
		log.Fatal(err)
	}

	// Run benchmark
	if err := lab.Run(ctx); err != nil {
		log.Fatal(err)
	}

	// Display results
	lab.Summary()

	// Keep the figure around for headless runs
	if err := chart.SavePNG("forecastlab.png"); err != nil {
		log.WithError(err).Warn("saving chart figure failed")
	}

	// Show interactive chart
	if err := chartServer.Start(); err != nil {
		log.Fatal(err)
	}
}

// initializeChartServer sets up visualization for the benchmark curves
func initializeChartServer(cfg core.Config, log core.Logger) (*plot.ChartServer, *plot.Chart, error) {
	chart, err := plot.NewChart(log, plot.WithHorizon(cfg.Horizon))
	if err != nil {
		return nil, nil, err
	}

	return plot.NewChartServer(chart, plot.NewStandardHTTPServer(), log), chart, nil
}
