package main

import (
	"powercap-metrics/internal/application/converter"
	"powercap-metrics/internal/application/plotting"
	"powercap-metrics/internal/config"
	"powercap-metrics/internal/infrastructure/metrics"
	"powercap-metrics/internal/logging"
)

type application struct {
	Config    config.Config
	RunID     string
	Logger    *logging.Logger
	Recorder  *metrics.Recorder
	Converter *converter.Service
	Plotter   *plotting.Service
}

func newApplication(cfg config.Config, runID runID, logger *logging.Logger, recorder *metrics.Recorder, conv *converter.Service, plotter *plotting.Service) *application {
	return &application{
		Config:    cfg,
		RunID:     string(runID),
		Logger:    logger,
		Recorder:  recorder,
		Converter: conv,
		Plotter:   plotter,
	}
}

// assembleApplication exports the run metrics on cleanup when a textfile
// path is configured.
func assembleApplication(app *application) (*application, func(), error) {
	cleanup := func() {
		if err := app.Recorder.WriteTextfile(app.Config.MetricsTextfile); err != nil {
			app.Logger.Error("metrics export failed", logging.AttachError(err, "path", app.Config.MetricsTextfile)...)
		}
	}
	return app, cleanup, nil
}
