package domain

import "errors"

var ErrServiceNotFound = errors.New("service not found")
var ErrProfessionalNotFound = errors.New("professional not found")

// Professional is a service provider shown on browse screens.
type Professional struct {
	ID             string  `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Specialization string  `json:"specialization" yaml:"specialization"`
	Location       string  `json:"location" yaml:"location"`
	Rating         float64 `json:"rating" yaml:"rating"`
	AvatarRef      string  `json:"avatar_ref,omitempty" yaml:"avatar_ref"`
}

// Service is a browseable offering owned by a professional.
type Service struct {
	ID             string  `json:"id" yaml:"id"`
	Title          string  `json:"title" yaml:"title"`
	Category       string  `json:"category" yaml:"category"`
	Description    string  `json:"description" yaml:"description"`
	ProfessionalID string  `json:"professional_id" yaml:"professional_id"`
	Rating         float64 `json:"rating" yaml:"rating"`
	PriceFrom      float64 `json:"price_from" yaml:"price_from"`
	PriceTo        float64 `json:"price_to" yaml:"price_to"`
}

// Material is a purchasable item offered under a service.
type Material struct {
	ID        string  `json:"id" yaml:"id"`
	ServiceID string  `json:"service_id" yaml:"service_id"`
	Name      string  `json:"name" yaml:"name"`
	Unit      string  `json:"unit" yaml:"unit"`
	UnitPrice float64 `json:"unit_price" yaml:"unit_price"`
	ImageRef  string  `json:"image_ref,omitempty" yaml:"image_ref"`
}
