package dto

import "github.com/shopspring/decimal"

type DashboardResponse struct {
	CustomerCount    int64           `json:"customer_count"`
	DogCount         int64           `json:"dog_count"`
	OpenInvoices     int64           `json:"open_invoices"`
	OverdueInvoices  int64           `json:"overdue_invoices"`
	OutstandingTotal decimal.Decimal `json:"outstanding_total"`
	RevenueThisMonth decimal.Decimal `json:"revenue_this_month"`
	UpcomingSessions int64           `json:"upcoming_sessions"`
}
