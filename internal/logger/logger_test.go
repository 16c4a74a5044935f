package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/nardi-nardi/naanews-sub000/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_DefaultsToInfo(t *testing.T) {
	t.Helper()

	log, err := logger.New(logger.Config{OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestZapLogger_WithAttachesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewFromZap(zap.New(core)).With(logger.String("service", "naanews"))

	log.Warn("fallback to seed", logger.Tag("feeds"), logger.Error(errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "naanews", fields["service"])
	assert.Equal(t, "feeds", fields["tag"])
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	scoped := logger.NewFromZap(zap.New(core))
	fallback := logger.NewNop()

	ctx := logger.WithContext(context.Background(), scoped)
	logger.FromContext(ctx, fallback).Info("hello")
	assert.Equal(t, 1, logs.Len())

	got := logger.FromContext(context.Background(), fallback)
	assert.Equal(t, fallback, got)

	assert.NotNil(t, logger.FromContext(context.Background(), nil))
}
