package dto

import "github.com/shopspring/decimal"

type LabTestResponse struct {
	ID          int64           `json:"id"`
	TestName    string          `json:"test_name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Active      bool            `json:"active"`
}

type TestMenuResponse struct {
	Tests      []LabTestResponse `json:"tests"`
	Categories []string          `json:"categories"`
	Total      int               `json:"total"`
}
