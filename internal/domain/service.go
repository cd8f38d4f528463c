package domain

// CatalogService is a bookable service from the business's catalog
type CatalogService struct {
	ID              int64
	BusinessID      int64
	Name            string
	Category        string
	DurationMinutes int
}

// ServiceSpec is a requested service with a quantity. Quantity N expands
// into N independent service units, each requiring its own provider.
type ServiceSpec struct {
	ServiceID int64
	Quantity  int
}

// ServiceUnit is a single expanded unit of a requested service
type ServiceUnit struct {
	ServiceID       int64
	Category        string
	DurationMinutes int
}
