//go:build wireinject

package main

import (
	"io"

	"github.com/google/wire"
)

func initApplication(out io.Writer) (*application, func(), error) {
	wire.Build(
		provideConfig,
		provideRunID,
		provideLogger,
		provideRecorder,
		provideRunRecorder,
		provideRecordSource,
		provideStore,
		provideSeriesWriter,
		provideSeriesReader,
		provideBatchRunner,
		provideConverter,
		provideConfigLoader,
		provideRenderer,
		providePlotter,
		newApplication,
		assembleApplication,
	)
	return nil, nil, nil
}
