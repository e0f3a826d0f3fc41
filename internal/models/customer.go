package models

import "time"

// Customer belongs to exactly one salesman, referenced by name.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Salesman  string    `json:"salesman"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCustomerRequest represents the request body for creating a customer
type CreateCustomerRequest struct {
	Name     string `json:"name"`
	Salesman string `json:"salesman"`
}
