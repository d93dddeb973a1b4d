package app

import (
	"io"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
)

// NewLogger builds the process logger writing to w.
func NewLogger(w io.Writer, cfg LogConfig) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, ErrInvalidConfig.Wrapf("log level %q", cfg.Level)
	}

	opts := []log.Option{log.LevelOption(level)}
	if cfg.JSON {
		opts = append(opts, log.OutputJSONOption())
	} else {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(w, opts...), nil
}
