package models

import "time"

// Customer is a person who can place orders. Email is unique.
type Customer struct {
	ID        uint      `gorm:"primaryKey"                     json:"id"`
	Name      string    `gorm:"size:255;not null"              json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex"  json:"email"`
	Phone     *string   `gorm:"size:50"                        json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
