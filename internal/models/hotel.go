package models

import (
	"github.com/google/uuid"
)

// Brand groups hotels under a marketing label.
type Brand struct {
	BaseModel
	Name        string  `gorm:"uniqueIndex" json:"name"`
	Description string  `json:"description"`
	LogoColor   string  `json:"logo_color"`
	Hotels      []Hotel `json:"hotels,omitempty"`
}

type Hotel struct {
	BaseModel
	BrandID     *uuid.UUID `gorm:"type:uuid;index" json:"brand_id"`
	Brand       *Brand     `json:"brand,omitempty"`
	Name        string     `json:"name"`
	City        string     `gorm:"index" json:"city"`
	Address     string     `json:"address"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Stars       int        `gorm:"default:4" json:"stars"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`

	// Per-room nightly breakfast price, charged at booking time unless a
	// milestone breakfast voucher covers it.
	BreakfastPrice float64 `json:"breakfast_price"`

	RoomTypes []RoomType `json:"room_types,omitempty"`
	Reviews   []Review   `json:"reviews,omitempty"`
}

// Amenity is a bookable room feature (WiFi, pool access, ...).
type Amenity struct {
	BaseModel
	Name string `gorm:"uniqueIndex" json:"name"`
}

// RoomType is the sellable unit: a category of identical rooms within a
// hotel. Inventory is the total number of physical rooms of this type;
// availability for a date range is always re-derived from bookings.
type RoomType struct {
	BaseModel
	HotelID       uuid.UUID `gorm:"type:uuid;index" json:"hotel_id"`
	Hotel         *Hotel    `json:"hotel,omitempty"`
	Name          string    `json:"name"`
	Capacity      int       `json:"capacity"`
	PricePerNight float64   `json:"price_per_night"`
	Inventory     int       `gorm:"default:1" json:"inventory"`
	Description   string    `json:"description"`
	ImageURL      string    `json:"image_url"`

	Amenities []Amenity `gorm:"many2many:roomtype_amenities" json:"amenities,omitempty"`
	Bookings  []Booking `json:"bookings,omitempty"`
}

// Review is a guest rating for a hotel, 1-5 stars.
type Review struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User    *User     `json:"user,omitempty"`
	HotelID uuid.UUID `gorm:"type:uuid;index" json:"hotel_id"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
}
