package model

import "time"

// LaundryRecord is one submission against the package budget.
type LaundryRecord struct {
	ID         string    `json:"id"`
	Date       Date      `json:"date"`
	Weight     float64   `json:"weight"`
	ItemsCount int       `json:"itemsCount"`
	Timestamp  time.Time `json:"timestamp"`
}
