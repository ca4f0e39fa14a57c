// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
// - base.go: BaseModel shared by every table
// - customer.go, shipment.go, package.go, device.go: tracking tables
//
// Foreign keys are declared as belongs-to associations so that GORM can both
// create the constraints and eager-load the referenced rows with Preload.
package models
