package tracking

// ListRequest carries the optional arguments of a list query
type ListRequest struct {
	Limit     *int
	SortOrder *string
	SortField *string
}

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	CustomerName              string
	CustomerAddress           string
	CustomerCity              string
	CustomerState             string
	CustomerCountry           string
	CustomerZipcode           string
	PrimaryContactName        string
	PrimaryContactPhoneNumber string
	PrimaryContactEmail       string
	SalesRep                  string
}

// CreateShipmentRequest represents a request to create a shipment
type CreateShipmentRequest struct {
	ShippingLabel  *string
	TrackingNumber string
	Shipper        string
	CustomerID     int
}

// CreatePackageRequest represents a request to create a package
type CreatePackageRequest struct {
	PackageType   string
	PackageStatus string
	CustomerID    int
	ShipmentID    int
}

// CreateDeviceRequest represents a request to create a device
type CreateDeviceRequest struct {
	SerialNumber    string
	ResinUUID       *string
	QRCode          *string
	Notes           *string
	MACAddress      *string
	IMEINumber      *string
	SIMSerialNumber *string
	DeviceType      string
	DeviceStatus    string
	PackageID       int
}
