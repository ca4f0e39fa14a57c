package persistence

import "github.com/shiptrack/backend/internal/domain/tracking"

// NewRepositories wires every tracking repository to db, bounding each
// call by the database query timeout.
func NewRepositories(db *Database) tracking.Repositories {
	opt := WithQueryTimeout(db.QueryTimeout)
	return tracking.Repositories{
		Customers: NewGormCustomerRepository(db.DB, opt),
		Shipments: NewGormShipmentRepository(db.DB, opt),
		Packages:  NewGormPackageRepository(db.DB, opt),
		Devices:   NewGormDeviceRepository(db.DB, opt),
	}
}
