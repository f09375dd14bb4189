package render

import "InsideX/internal/controller"

type DashboardView struct {
	State   controller.DashboardState
	Signals TableData
	Trades  TableData
}

type SignalsView struct {
	Page    controller.SignalsPage
	Table   TableData
	Pager   PagerData
	Refresh string
	Windows []int
	Tiers   []string
}

type TradesView struct {
	Page  controller.TradesPage
	Table TableData
	Pager PagerData
}

type CompanyView struct {
	Page   controller.CompanyPage
	Trades TableData
}

type InsiderView struct {
	Page    controller.InsiderPage
	Trades  TableData
	History TableData
}

type ErrorView struct {
	Status  int
	Message string
}
