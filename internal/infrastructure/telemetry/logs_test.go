package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recordingProcessor keeps every emitted record in memory
type recordingProcessor struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (p *recordingProcessor) OnEmit(_ context.Context, r *sdklog.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, r.Clone())
	return nil
}

func (p *recordingProcessor) Enabled(context.Context, sdklog.EnabledParameters) bool { return true }

func (p *recordingProcessor) Shutdown(context.Context) error   { return nil }
func (p *recordingProcessor) ForceFlush(context.Context) error { return nil }

func (p *recordingProcessor) bodies() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.records))
	for _, r := range p.records {
		out = append(out, r.Body().AsString())
	}
	return out
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	lp, err := NewLoggerProvider(ctx, LogsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.ForceFlush(ctx))
	assert.NoError(t, lp.Shutdown(ctx))

	core := NewZapOTELCore(lp, zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestNewZapOTELCore_NilProvider(t *testing.T) {
	core := NewZapOTELCore(nil, zapcore.DebugLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestZapBridge_ForwardsRecordsAboveLevel(t *testing.T) {
	ctx := context.Background()
	proc := &recordingProcessor{}

	lp, err := NewLoggerProvider(ctx, LogsConfig{Enabled: true, ServiceName: "shiptrack-test"}, zap.NewNop(), WithLogProcessor(proc))
	require.NoError(t, err)
	defer func() { _ = lp.Shutdown(ctx) }()

	stdout, observed := observer.New(zapcore.DebugLevel)
	logger := zap.New(zapcore.NewTee(stdout, NewZapOTELCore(lp, zapcore.InfoLevel)))

	logger.Debug("debug only on stdout")
	logger.Info("device created", zap.Uint("device_id", 9))
	logger.Error("store unavailable")

	assert.Equal(t, 3, observed.Len())
	assert.Equal(t, []string{"device created", "store unavailable"}, proc.bodies())

	proc.mu.Lock()
	defer proc.mu.Unlock()
	assert.Equal(t, log.SeverityError, proc.records[1].Severity())
}

func TestLevelFilterCore_With(t *testing.T) {
	base, observed := observer.New(zapcore.DebugLevel)
	core := (&levelFilterCore{Core: base, minLevel: zapcore.WarnLevel}).With([]zapcore.Field{zap.String("k", "v")})

	logger := zap.New(core)
	logger.Info("dropped")
	logger.Warn("kept")

	require.Equal(t, 1, observed.Len())
	entry := observed.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "v", entry.ContextMap()["k"])
}
