package models

import "time"

// AllSalesmen is the filter value that selects every salesman's customers.
const AllSalesmen = "ALL"

type Salesman struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSalesmanRequest represents the request body for creating a salesman
type CreateSalesmanRequest struct {
	Name string `json:"name"`
}
