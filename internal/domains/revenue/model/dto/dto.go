package dto

import (
	"fleet/internal/domains/revenue/model"
	"fleet/shared"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
)

type RevenueResponse struct {
	ID         string  `json:"id"`
	Source     string  `json:"source"`
	ContractID string  `json:"contract_id,omitempty"`
	InvoiceID  string  `json:"invoice_id,omitempty"`
	Amount     float64 `json:"amount"`
	EntryDate  string  `json:"entry_date"`
	gDto.Metadata
}

func (r *RevenueResponse) FromModel(model model.Revenue) {
	r.ID = model.ID
	r.Source = model.Source
	r.Amount = model.Amount
	r.EntryDate = model.EntryDate.Format(constant.DateOnlyFormat)

	if model.ContractID != nil {
		r.ContractID = *model.ContractID
	}

	if model.InvoiceID != nil {
		r.InvoiceID = *model.InvoiceID
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetRevenuesResponse struct {
	Revenues  []RevenueResponse `json:"revenues"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetRevenuesResponse) FromModels(models []model.Revenue, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Revenues = make([]RevenueResponse, len(models))
	for i, mod := range models {
		r.Revenues[i].FromModel(mod)
	}
}

type MonthlyRevenueResponse struct {
	Year   int       `json:"year"`
	Months []float64 `json:"months"`
	Total  float64   `json:"total"`
}

// FromTotals spreads sparse per-month rows over a fixed 12-slot slice.
func (r *MonthlyRevenueResponse) FromTotals(year int, totals []model.MonthlyTotal) {
	r.Year = year
	r.Months = make([]float64, 12)

	for _, t := range totals {
		if t.Month < 1 || t.Month > 12 {
			continue
		}

		r.Months[t.Month-1] = t.Total
		r.Total += t.Total
	}
}

type RevenueSummaryResponse struct {
	Total    float64 `json:"total"`
	Contract float64 `json:"contract"`
	Invoice  float64 `json:"invoice"`
	From     string  `json:"from,omitempty"`
	To       string  `json:"to,omitempty"`
}
