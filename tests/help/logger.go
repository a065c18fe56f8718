package help

import (
	"log/slog"
	"os"
)

func Logger() *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})
	return slog.New(h).With(
		slog.String("service", "ashHttpCache"),
		slog.String("env", "test"),
	)
}
