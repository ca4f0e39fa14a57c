package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func TestNewDBMetrics_NilMeter(t *testing.T) {
	_, err := NewDBMetrics(nil, nil, DefaultDBMetricsConfig(), nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestDBMetrics_RecordQuery(t *testing.T) {
	reader, mp := newManualMeter(t)
	m, err := NewDBMetrics(mp.Meter("db"), nil, DBMetricsConfig{Enabled: true, SlowQueryThreshold: 10 * time.Millisecond}, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordQuery(ctx, "select", "devices", time.Millisecond, nil)
	m.RecordQuery(ctx, "SELECT", "devices", 20*time.Millisecond, nil)
	m.RecordQuery(ctx, "INSERT", "", time.Millisecond, errors.New("fk"))
	m.RecordQuery(ctx, "", "packages", time.Millisecond, nil)

	metrics := collect(t, reader)
	total := metrics["db_query_total"]
	assert.Equal(t, int64(2), sumFor(t, total, AttrDBOperation.String("SELECT"), AttrDBTable.String("devices")))
	assert.Equal(t, int64(1), sumFor(t, total, AttrDBOperation.String("INSERT"), AttrDBTable.String("unknown")))
	assert.Equal(t, int64(1), sumFor(t, total, AttrDBOperation.String("UNKNOWN")))
	assert.Equal(t, int64(1), sumFor(t, metrics["db_query_errors_total"], AttrDBOperation.String("INSERT")))
	assert.Equal(t, int64(1), sumFor(t, metrics["db_slow_query_total"], AttrDBTable.String("devices")))
}

func TestDBMetrics_PoolGauges(t *testing.T) {
	reader, mp := newManualMeter(t)
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(3)

	m, err := NewDBMetrics(mp.Meter("db"), sqlDB, DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)

	metrics := collect(t, reader)
	gauge, ok := metrics["db_pool_connections_max"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(3), gauge.DataPoints[0].Value)

	states, ok := metrics["db_pool_connections"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Len(t, states.DataPoints, 3)

	m.Stop()
	m.Stop()
	if after, ok := collect(t, reader)["db_pool_connections_max"]; ok {
		g, _ := after.Data.(metricdata.Gauge[int64])
		assert.Empty(t, g.DataPoints)
	}
}

func TestDBMetricsPlugin_CountsStatements(t *testing.T) {
	reader, mp := newManualMeter(t)
	db := setupTestDB(t)

	m, err := NewDBMetrics(mp.Meter("db"), nil, DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.Use(NewDBMetricsPlugin(m)))

	require.NoError(t, db.Create(&testDevice{SerialNumber: "SN-1"}).Error)
	var rows []testDevice
	require.NoError(t, db.Find(&rows).Error)
	var n int64
	require.NoError(t, db.Model(&testDevice{}).Count(&n).Error)

	total := collect(t, reader)["db_query_total"]
	assert.Equal(t, int64(1), sumFor(t, total, AttrDBOperation.String("INSERT")))
	assert.Equal(t, int64(2), sumFor(t, total, AttrDBOperation.String("SELECT")))
}

func TestDetectOperationType(t *testing.T) {
	tests := map[string]string{
		"SELECT * FROM devices":        "SELECT",
		"  insert into devices":        "INSERT",
		"UPDATE devices SET notes = ?": "UPDATE",
		"delete from devices":          "DELETE",
		"PRAGMA foreign_keys":          "OTHER",
		"":                             "OTHER",
	}
	for sql, want := range tests {
		assert.Equal(t, want, detectOperationType(sql), sql)
	}
}

func TestRegisterDBMetrics_Disabled(t *testing.T) {
	db := setupTestDB(t)

	m, err := RegisterDBMetrics(db, nil, DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, m)
}
