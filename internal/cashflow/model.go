package cashflow

import (
	"time"

	"github.com/shopspring/decimal"
)

// historyDays is the trailing window produced by History, today
// included.
const historyDays = 30

// forecastDays is the forward window scanned by Forecast.
const forecastDays = 30

// DailyBalance is the end-of-day cash position for one date.
type DailyBalance struct {
	Date    string          `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// InflowItem is one POSTED invoice expected to pay out inside the
// forecast window.
type InflowItem struct {
	InvoiceID int64           `json:"invoiceId"`
	Number    string          `json:"number"`
	DueDate   time.Time       `json:"dueDate"`
	Amount    decimal.Decimal `json:"amount"`
}

// OutflowItem is the next occurrence of one recurring transaction
// inside the forecast window. Only the next occurrence is counted,
// even when the cadence would repeat within the window.
type OutflowItem struct {
	RecurringID int64           `json:"recurringId"`
	Name        string          `json:"name"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
}

// Forecast is the projected cash movement for the forward window.
type Forecast struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	TotalInflow  decimal.Decimal `json:"totalInflow"`
	TotalOutflow decimal.Decimal `json:"totalOutflow"`
	Net          decimal.Decimal `json:"net"`
	Inflows      []InflowItem    `json:"inflows"`
	Outflows     []OutflowItem   `json:"outflows"`
}
