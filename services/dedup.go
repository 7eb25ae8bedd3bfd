package services

import (
	"time"

	"grocery-deal-finder/models"
)

// Dedupe returns the candidates whose signature does not appear in any
// history entry found strictly inside (now-window, now]. Candidate order
// is preserved. History rows with missing or unparsable timestamps never
// suppress anything; dropping a deal over a bad old row is worse than a
// repeat notification.
func Dedupe(candidates []*models.Deal, history []models.HistoryEntry, now time.Time, window time.Duration) []*models.Deal {
	cutoff := now.Add(-window)

	recent := make(map[string]struct{})
	for _, entry := range history {
		found, err := parseFoundDate(entry.FoundDate)
		if err != nil {
			continue
		}
		if found.After(cutoff) {
			recent[entry.Signature()] = struct{}{}
		}
	}

	fresh := make([]*models.Deal, 0, len(candidates))
	for _, deal := range candidates {
		if _, seen := recent[deal.Signature()]; seen {
			continue
		}
		fresh = append(fresh, deal)
	}
	return fresh
}

// parseFoundDate accepts the formats history rows have been written with
// over time: RFC3339 from the Postgres store and a plain local layout
// from older CSV exports.
func parseFoundDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", raw)
}
