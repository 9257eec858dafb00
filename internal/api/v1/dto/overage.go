package dto

import "time"

// OverageEventDTO is one billed unit of usage beyond quota.
type OverageEventDTO struct {
	ID          string    `json:"id"`
	AmountCents int       `json:"amountCents"`
	Count       int       `json:"count"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// OverageListResponseDTO is returned when listing an account's overages.
type OverageListResponseDTO struct {
	Overages []OverageEventDTO `json:"overages"`
}
