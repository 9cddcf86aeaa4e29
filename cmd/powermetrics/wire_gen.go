//go:build !wireinject

package main

import (
	"io"

	"powercap-metrics/internal/application/plotting"
	"powercap-metrics/internal/config"
	"powercap-metrics/internal/domain"
	"powercap-metrics/internal/logging"
)

func initApplication(out io.Writer) (*application, func(), error) {
	cfg, id, logger := setupBase(out)
	recorder := provideRecorder()
	runRecorder := provideRunRecorder(recorder)

	source := provideRecordSource()
	store := provideStore()
	writer := provideSeriesWriter(store)
	reader := provideSeriesReader(store)

	runner := provideBatchRunner(logger, runRecorder)
	conv := provideConverter(source, writer, runner, logger, runRecorder)
	plotter := setupPlotter(source, reader, logger, runRecorder)

	app := newApplication(cfg, id, logger, recorder, conv, plotter)
	return assembleApplication(app)
}

func setupBase(out io.Writer) (config.Config, runID, *logging.Logger) {
	cfg := provideConfig()
	id := provideRunID()
	logger := provideLogger(out, cfg, id)
	return cfg, id, logger
}

func setupPlotter(source domain.RecordSource, reader domain.SeriesReader, logger *logging.Logger, recorder domain.RunRecorder) *plotting.Service {
	configs := provideConfigLoader(logger, recorder)
	renderer := provideRenderer(recorder)
	return providePlotter(source, reader, configs, renderer, logger)
}
