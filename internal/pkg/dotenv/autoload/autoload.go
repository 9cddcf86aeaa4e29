// Package autoload loads a .env file from the working directory on import.
// Variables already set in the environment win.
package autoload

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("dotenv autoload failed", "error", err.Error())
	}
}
