package models

import "time"

// Villa is a rentable property listed in the catalogue.
type Villa struct {
	ID            string    `bson:"id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Slug          string    `bson:"slug" json:"slug"`
	Location      string    `bson:"location" json:"location"`
	Description   string    `bson:"description,omitempty" json:"description,omitempty"`
	PricePerNight float64   `bson:"pricePerNight" json:"pricePerNight"`
	Currency      string    `bson:"currency" json:"currency"`
	MaxGuests     int       `bson:"maxGuests" json:"maxGuests"`
	Bedrooms      int       `bson:"bedrooms" json:"bedrooms"`
	Bathrooms     int       `bson:"bathrooms" json:"bathrooms"`
	Amenities     []string  `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Images        []string  `bson:"images,omitempty" json:"images,omitempty"`
	IsActive      bool      `bson:"isActive" json:"isActive"`
	IsPublished   bool      `bson:"isPublished" json:"isPublished"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Bookable reports whether guests may submit requests for the villa.
func (v *Villa) Bookable() bool {
	return v.IsActive && v.IsPublished
}

// VillaInput is the admin payload for creating or replacing a villa.
type VillaInput struct {
	Name          string   `json:"name" binding:"required,min=2,max=120"`
	Slug          string   `json:"slug" binding:"omitempty,max=140"`
	Location      string   `json:"location" binding:"required,max=200"`
	Description   string   `json:"description" binding:"max=5000"`
	PricePerNight float64  `json:"pricePerNight" binding:"required,gt=0"`
	Currency      string   `json:"currency" binding:"omitempty,len=3"`
	MaxGuests     int      `json:"maxGuests" binding:"required,min=1,max=100"`
	Bedrooms      int      `json:"bedrooms" binding:"min=0,max=50"`
	Bathrooms     int      `json:"bathrooms" binding:"min=0,max=50"`
	Amenities     []string `json:"amenities"`
	Images        []string `json:"images"`
	IsActive      *bool    `json:"isActive"`
	IsPublished   *bool    `json:"isPublished"`
}

// VillaFilter holds the listing query parameters.
type VillaFilter struct {
	Page            int
	Limit           int
	IsActive        *bool
	IsPublished     *bool
	Search          string
	IncludeInactive bool
}
