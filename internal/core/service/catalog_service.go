package service

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/craftlink/marketplace-core/internal/core/domain"
	"github.com/craftlink/marketplace-core/internal/core/ports"
)

//go:embed seed.yaml
var seedData []byte

type catalogSeed struct {
	Professionals []domain.Professional `yaml:"professionals"`
	Services      []domain.Service      `yaml:"services"`
	Materials     []domain.Material     `yaml:"materials"`
}

// CatalogService is the read-only browse surface over the embedded seed
// catalog. All lookups are linear scans over a few dozen records.
type CatalogService struct {
	professionals []domain.Professional
	services      []domain.Service
	materials     []domain.Material
}

var _ ports.CatalogService = (*CatalogService)(nil)

// NewCatalogService parses the embedded seed data.
func NewCatalogService() (*CatalogService, error) {
	var seed catalogSeed
	if err := yaml.Unmarshal(seedData, &seed); err != nil {
		return nil, fmt.Errorf("parse catalog seed: %w", err)
	}
	return &CatalogService{
		professionals: seed.Professionals,
		services:      seed.Services,
		materials:     seed.Materials,
	}, nil
}

// ListServices returns all services, or only those in category when it is
// non-empty.
func (c *CatalogService) ListServices(category string) []domain.Service {
	if category == "" {
		out := make([]domain.Service, len(c.services))
		copy(out, c.services)
		return out
	}
	var out []domain.Service
	for _, s := range c.services {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

func (c *CatalogService) GetService(id string) (*domain.Service, error) {
	for i := range c.services {
		if c.services[i].ID == id {
			clone := c.services[i]
			return &clone, nil
		}
	}
	return nil, domain.ErrServiceNotFound
}

func (c *CatalogService) MaterialsForService(serviceID string) []domain.Material {
	var out []domain.Material
	for _, m := range c.materials {
		if m.ServiceID == serviceID {
			out = append(out, m)
		}
	}
	return out
}

// Categories returns the distinct service categories, sorted.
func (c *CatalogService) Categories() []string {
	seen := make(map[string]struct{})
	for _, s := range c.services {
		seen[s.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

func (c *CatalogService) Professionals() []domain.Professional {
	out := make([]domain.Professional, len(c.professionals))
	copy(out, c.professionals)
	return out
}

func (c *CatalogService) GetProfessional(id string) (*domain.Professional, error) {
	for i := range c.professionals {
		if c.professionals[i].ID == id {
			clone := c.professionals[i]
			return &clone, nil
		}
	}
	return nil, domain.ErrProfessionalNotFound
}
