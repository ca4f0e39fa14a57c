package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shiptrack/backend/internal/domain/shared"
	"github.com/shiptrack/backend/internal/domain/tracking"
	"github.com/shiptrack/backend/internal/infrastructure/config"
)

// newPostgresDB starts a throwaway PostgreSQL container and migrates the
// tracking tables into it
func newPostgresDB(t *testing.T) *Database {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping PostgreSQL integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("shiptrack_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := NewDatabase(&config.DatabaseConfig{
		Dialect:      config.DialectPostgres,
		Host:         host,
		Port:         port.Int(),
		User:         "postgres",
		Password:     "postgres",
		DBName:       "shiptrack_test",
		SSLMode:      "disable",
		MaxOpenConns: 3,
		MaxIdleConns: 1,
		QueryTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPostgres_TrackingScenario(t *testing.T) {
	db := newPostgresDB(t)
	f := seedTracking(t, db)
	ctx := context.Background()

	device := tracking.NewDevice(tracking.DeviceDetails{
		SerialNumber: "SN-PG-1",
		MACAddress:   strPtr("00:1B:44:11:3A:B7"),
		Type:         "drone",
		Status:       "new",
	}, f.pkg.ID)
	require.NoError(t, f.repos.Devices.Create(ctx, device))

	found, err := f.repos.Devices.FindByID(ctx, device.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Package)
	assert.Equal(t, f.pkg.ID, found.Package.ID)

	packages, err := f.repos.Packages.FindAll(ctx, shared.ListOptions{})
	require.NoError(t, err)
	require.Len(t, packages, 1)
	require.NotNil(t, packages[0].Customer)
	require.NotNil(t, packages[0].Shipment)
	assert.Equal(t, "Acme Drones", packages[0].Customer.Name)
	assert.Equal(t, "TRK1", packages[0].Shipment.TrackingNumber)
}

func TestPostgres_ForeignKeyViolations(t *testing.T) {
	db := newPostgresDB(t)
	f := seedTracking(t, db)
	ctx := context.Background()

	err := f.repos.Shipments.Create(ctx, tracking.NewShipment(nil, "TRK404", "UPS", 404))
	assert.ErrorIs(t, err, shared.ErrReferenceNotFound)

	err = f.repos.Packages.Create(ctx, tracking.NewPackage("crate", "pending", f.customer.ID, 4040))
	assert.ErrorIs(t, err, shared.ErrReferenceNotFound)

	err = f.repos.Devices.Create(ctx, tracking.NewDevice(tracking.DeviceDetails{
		SerialNumber: "SN-404", Type: "drone", Status: "new",
	}, 40404))
	assert.ErrorIs(t, err, shared.ErrReferenceNotFound)

	n, err := f.repos.Shipments.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPostgres_ListOptions(t *testing.T) {
	db := newPostgresDB(t)
	f := seedTracking(t, db)
	ctx := context.Background()

	for _, tn := range []string{"TRK3", "TRK2"} {
		require.NoError(t, f.repos.Shipments.Create(ctx, tracking.NewShipment(nil, tn, "FedEx", f.customer.ID)))
	}

	sorted, err := f.repos.Shipments.FindAll(ctx, shared.ListOptions{SortField: "tracking_number", SortOrder: "desc", Limit: 2})
	require.NoError(t, err)
	require.Len(t, sorted, 2)
	assert.Equal(t, "TRK3", sorted[0].TrackingNumber)
	assert.Equal(t, "TRK2", sorted[1].TrackingNumber)
}
