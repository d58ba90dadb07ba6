// Package models defines the API payloads the eliteglam client exchanges with
// the backend.
package models

import "time"

type ProfileDetails struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	PhotoURL  string `json:"photoURL,omitempty"`
}

type Profile struct {
	UID       string          `json:"uid"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Details   *ProfileDetails `json:"profile,omitempty"`
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Quantity    int       `json:"quantity"`
	Rating      *float64  `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Booking struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customerName"`
	ServiceName  string    `json:"serviceName"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Status       string    `json:"status"`
	Price        float64   `json:"price"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterRequest is the registration form.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type NewProduct struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Quantity    int      `json:"quantity"`
	Rating      *float64 `json:"rating,omitempty"`
}

type NewBooking struct {
	CustomerName string  `json:"customerName"`
	ServiceName  string  `json:"serviceName"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Price        float64 `json:"price"`
	Notes        string  `json:"notes,omitempty"`
}
