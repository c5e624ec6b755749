package ports

import "github.com/craftlink/marketplace-core/internal/core/domain"

// CatalogService is the read-only browse surface over the seeded catalog.
// Lookups are linear scans; there is no search index.
type CatalogService interface {
	// ListServices returns all services, or only those in category when it
	// is non-empty.
	ListServices(category string) []domain.Service
	GetService(id string) (*domain.Service, error)
	MaterialsForService(serviceID string) []domain.Material
	Categories() []string
	Professionals() []domain.Professional
	GetProfessional(id string) (*domain.Professional, error)
}
