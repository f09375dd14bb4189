package controller

import (
	"context"
	"strings"

	"InsideX/internal/client"
	"InsideX/internal/domain/models"
	"InsideX/pkg/logger"
)

type CompanyPage struct {
	Status   Status
	Error    string
	NotFound bool
	Ticker   string
	Company  *models.CompanyResponse
}

type InsiderPage struct {
	Status   Status
	Error    string
	NotFound bool
	Name     string
	Insider  *models.InsiderResponse
}

// Detail loads the company and insider pages.
type Detail struct {
	api DetailAPI
	log *logger.Logger
}

func NewDetail(api DetailAPI, log *logger.Logger) *Detail {
	if log == nil {
		log = logger.Nop()
	}
	return &Detail{api: api, log: log}
}

func (d *Detail) Company(ctx context.Context, ticker string) (CompanyPage, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	resp, err := d.api.GetCompany(ctx, ticker)
	if err != nil {
		d.log.Warn("company load failed", logger.String("ticker", ticker), logger.Error(err))
		return CompanyPage{Status: StatusError, Error: client.Message(err), NotFound: client.IsNotFound(err), Ticker: ticker}, err
	}
	return CompanyPage{Status: StatusReady, Ticker: ticker, Company: resp}, nil
}

func (d *Detail) Insider(ctx context.Context, name string) (InsiderPage, error) {
	name = strings.TrimSpace(name)
	resp, err := d.api.GetInsider(ctx, name)
	if err != nil {
		d.log.Warn("insider load failed", logger.String("insider", name), logger.Error(err))
		return InsiderPage{Status: StatusError, Error: client.Message(err), NotFound: client.IsNotFound(err), Name: name}, err
	}
	return InsiderPage{Status: StatusReady, Name: name, Insider: resp}, nil
}
