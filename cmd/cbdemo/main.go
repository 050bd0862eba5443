package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	cb "github.com/sushydev/circular_buffer_go"
)

// Debug output is only kept in memory and printed when a command fails.
const logTailBytes = 16 << 10

func main() {
	tail, err := cb.NewTailWriter(logTailBytes)
	if err != nil {
		panic(err)
	}

	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	logger := newLogger(level, tail)
	defer func() { _ = logger.Sync() }()

	root := newRootCmd(logger, level)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "recent log output:\n%s", tail.String())
		logger.Fatal("command failed", zap.Error(err))
	}
}

func newLogger(level zap.AtomicLevel, tail *cb.TailWriter) *zap.Logger {
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level),
		zapcore.NewCore(encoder.Clone(), zapcore.AddSync(tail), zap.DebugLevel),
	)

	return zap.New(core, zap.AddCaller())
}
