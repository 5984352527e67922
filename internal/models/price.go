package models

import "time"

// PricePoint is one instrument's price observed at one poll. Immutable
// after creation.
type PricePoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Instrument string    `json:"instrument"`
	Price      float64   `json:"price"`
}

// StoredPrice is a persisted poll row, when the server is running with a
// database configured.
type StoredPrice struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Instrument string    `json:"instrument"`
	Price      float64   `json:"price"`
	TradingDay string    `json:"tradingDay"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"createdAt"`
}
