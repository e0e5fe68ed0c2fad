// Package view derives dashboard aggregates from the in-memory order
// collection. Everything is recomputed per fetch; the collection is small.
package view

import (
	"strings"

	"github.com/hemaperikala/is-it-ready/internal/models"
)

func ComputeStats(orders []models.Order) models.Stats {
	var stats models.Stats
	for _, o := range orders {
		switch o.Status {
		case models.StatusInProgress:
			stats.InProgress++
		case models.StatusReady:
			stats.Ready++
		case models.StatusCompleted:
			stats.Completed++
		}
	}
	return stats
}

// FilterActive keeps every order not yet completed, preserving the
// store-provided ordering (newest first).
func FilterActive(orders []models.Order) []models.Order {
	active := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status != models.StatusCompleted {
			active = append(active, o)
		}
	}
	return active
}

func FilterCompleted(orders []models.Order) []models.Order {
	completed := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == models.StatusCompleted {
			completed = append(completed, o)
		}
	}
	return completed
}

// Search matches the query case-insensitively against the customer name or
// as a raw substring of the phone number. An empty query matches everything.
func Search(orders []models.Order, query string) []models.Order {
	if query == "" {
		return orders
	}

	lowered := strings.ToLower(query)
	matched := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if strings.Contains(strings.ToLower(o.CustomerName), lowered) ||
			strings.Contains(o.CustomerPhone, query) {
			matched = append(matched, o)
		}
	}
	return matched
}
