package models

import "time"

// Property groups rental units under one owner and address.
type Property struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Unit is a bookable rental unit. The availability engine treats units as
// read-only input: pricing fields are snapshotted onto bookings at creation
// time and never recomputed.
type Unit struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"property_id"`
	Name        string    `json:"name"`
	MaxGuests   int       `json:"max_guests"`
	BasePrice   float64   `json:"base_price"`
	CleaningFee float64   `json:"cleaning_fee"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
