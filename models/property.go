package models

import "time"

// Types de biens acceptés côté client : apartment, house, villa, office, store.
type Property struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"userId"`
	Address       string    `gorm:"not null" json:"address"`
	City          string    `gorm:"not null" json:"city"`
	PostalCode    string    `json:"postalCode"`
	Type          string    `gorm:"not null" json:"type"`
	RentalPeriod  int       `gorm:"default:12" json:"rentalPeriod"`
	DepositAmount float64   `gorm:"default:0" json:"depositAmount"`
	RoomCount     int       `gorm:"default:1" json:"roomCount"`
	BathroomCount int       `gorm:"default:1" json:"bathroomCount"`
	Amenities     []string  `gorm:"serializer:json" json:"amenities"`
	LandlordName  string    `gorm:"not null" json:"landlordName"`
	LandlordEmail string    `gorm:"not null" json:"landlordEmail"`
	LandlordPhone string    `json:"landlordPhone"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	User    *User    `json:"user,omitempty"`
	Reports []Report `json:"reports,omitempty"`
}
