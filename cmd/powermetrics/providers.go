package main

import (
	"io"

	"github.com/google/uuid"

	"powercap-metrics/internal/application/batch"
	"powercap-metrics/internal/application/converter"
	"powercap-metrics/internal/application/plotting"
	"powercap-metrics/internal/application/zoneconfig"
	"powercap-metrics/internal/config"
	"powercap-metrics/internal/domain"
	"powercap-metrics/internal/infrastructure/chart"
	"powercap-metrics/internal/infrastructure/csvstore"
	"powercap-metrics/internal/infrastructure/jsonsource"
	"powercap-metrics/internal/infrastructure/metrics"
	"powercap-metrics/internal/logging"
)

type runID string

func provideConfig() config.Config {
	return config.Load()
}

func provideRunID() runID {
	return runID(uuid.NewString())
}

func provideLogger(out io.Writer, cfg config.Config, id runID) *logging.Logger {
	return logging.MustNew(cfg.LogLevel, logging.WithWriter(out)).WithRunID(string(id))
}

func provideRecorder() *metrics.Recorder {
	return metrics.NewRecorder()
}

func provideRunRecorder(recorder *metrics.Recorder) domain.RunRecorder {
	return recorder
}

func provideRecordSource() domain.RecordSource {
	return jsonsource.New()
}

func provideStore() *csvstore.Store {
	return csvstore.New()
}

func provideSeriesWriter(store *csvstore.Store) domain.SeriesWriter {
	return store
}

func provideSeriesReader(store *csvstore.Store) domain.SeriesReader {
	return store
}

func provideBatchRunner(logger *logging.Logger, recorder domain.RunRecorder) *batch.Runner {
	return batch.New(logger, recorder)
}

func provideConverter(source domain.RecordSource, writer domain.SeriesWriter, runner *batch.Runner, logger *logging.Logger, recorder domain.RunRecorder) *converter.Service {
	return converter.New(source, writer, runner, logger, recorder)
}

func provideConfigLoader(logger *logging.Logger, recorder domain.RunRecorder) plotting.ConfigLoader {
	return zoneconfig.NewLoader(logger, recorder)
}

func provideRenderer(recorder domain.RunRecorder) plotting.Renderer {
	return chart.NewRenderer(recorder)
}

func providePlotter(source domain.RecordSource, reader domain.SeriesReader, configs plotting.ConfigLoader, renderer plotting.Renderer, logger *logging.Logger) *plotting.Service {
	return plotting.New(source, reader, configs, renderer, logger)
}
