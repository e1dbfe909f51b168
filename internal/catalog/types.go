// Package catalog provides read-only access to the local vehicle and parts
// catalog. The message pipeline only queries it; catalog content is maintained
// by a separate import process.
package catalog

// Vehicle is a catalog vehicle row.
type Vehicle struct {
	ID            int64
	Make          string
	Model         string
	Year          string
	ChassisNumber string
}

// Part is a catalog part row, optionally linked to a vehicle.
type Part struct {
	ID          int64
	PartNumber  string
	Name        string
	Brand       string
	Price       *float64
	QuantityMin *int
	VehicleID   *int64
	Vehicle     *Vehicle
}
