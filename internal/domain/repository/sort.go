package repository

import "InsideX/internal/domain/models"

// IsValidInsiderSort returns true if s is a supported insider ordering.
func IsValidInsiderSort(s models.InsiderSort) bool {
	switch s {
	case models.InsiderSortActivity, models.InsiderSortPerformance, models.InsiderSortRecent:
		return true
	default:
		return false
	}
}

// DefaultInsiderSort returns the default insider ordering.
func DefaultInsiderSort() models.InsiderSort { return models.InsiderSortActivity }

// NormalizeInsiderSort converts raw string to a valid ordering (or default).
func NormalizeInsiderSort(s string) models.InsiderSort {
	if s == "" {
		return DefaultInsiderSort()
	}
	sort := models.InsiderSort(s)
	if IsValidInsiderSort(sort) {
		return sort
	}
	return DefaultInsiderSort()
}
