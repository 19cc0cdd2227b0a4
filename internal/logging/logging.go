// Package logging builds the process-wide zap logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/gelf"
)

const Service = "oxiadmin"

// New returns a production JSON logger at level. When gelfAddr is set,
// entries are also shipped to Graylog. The returned func flushes and
// releases the GELF socket.
func New(level, gelfAddr string) (*zap.Logger, func(), error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Sampling = nil
	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	logger = logger.With(zap.String("service", Service))

	if gelfAddr == "" {
		return logger, func() { _ = logger.Sync() }, nil
	}

	w, err := gelf.New(gelfAddr, Service)
	if err != nil {
		logger.Warn("GELF init failed", zap.String("addr", gelfAddr), zap.Error(err))
		return logger, func() { _ = logger.Sync() }, nil
	}
	gelfCore := zapcore.NewCore(zapcore.NewJSONEncoder(cfg.EncoderConfig), w, lvl)
	logger = logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, gelfCore)
	}))
	logger.Info("GELF logging enabled", zap.String("addr", gelfAddr))

	return logger, func() {
		_ = logger.Sync()
		_ = w.Close()
	}, nil
}
