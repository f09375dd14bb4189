// Package controller orchestrates API calls for each dashboard page and
// hands typed page state to the renderers.
package controller

import (
	"context"

	"InsideX/internal/client"
	"InsideX/internal/domain/models"
)

// Status is the load state of a page.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// SignalsAPI is the part of the API client that serves signals.
type SignalsAPI interface {
	GetTopSignals(ctx context.Context, p client.TopSignalsParams) (*models.TopSignalsResponse, error)
}

// TradesAPI is the part of the API client that serves trades.
type TradesAPI interface {
	ListTrades(ctx context.Context, f client.TradeFilter) (*models.TradeListResponse, error)
	GetTradeStats(ctx context.Context) (*models.TradeStats, error)
}

// DetailAPI serves the company and insider pages.
type DetailAPI interface {
	GetCompany(ctx context.Context, ticker string) (*models.CompanyResponse, error)
	GetInsider(ctx context.Context, name string) (*models.InsiderResponse, error)
}

// API is everything the pages need from the backend.
type API interface {
	SignalsAPI
	TradesAPI
	DetailAPI
}

var _ API = (*client.Client)(nil)
