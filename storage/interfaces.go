package storage

import "grocery-deal-finder/models"

// DealWriter is the interface any deal persistence backend must satisfy.
type DealWriter interface {
	Append(deals []*models.Deal) error
	Close() error
}

// HistoryReader supplies previously accepted deals to the deduplicator.
type HistoryReader interface {
	FetchHistory() ([]models.HistoryEntry, error)
}
