package entity

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// LabTest is a billable diagnostic procedure offered by the lab
type LabTest struct {
	ID          int64           `json:"id"`
	TestName    string          `json:"testName"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Active      bool            `json:"active"`
}

// LabTestCatalog indexes tests by ID
type LabTestCatalog map[int64]LabTest

// NewLabTestCatalog builds a catalog from tests.
func NewLabTestCatalog(tests []LabTest) LabTestCatalog {
	catalog := make(LabTestCatalog, len(tests))
	for _, t := range tests {
		catalog[t.ID] = t
	}
	return catalog
}

// ActiveTests drops inactive tests, keeping order.
func ActiveTests(tests []LabTest) []LabTest {
	active := make([]LabTest, 0, len(tests))
	for _, t := range tests {
		if t.Active {
			active = append(active, t)
		}
	}
	return active
}

// FilterTestMenu narrows tests by category (exact, case-insensitive) and a
// name/description substring, then sorts by category and name.
func FilterTestMenu(tests []LabTest, category, query string) []LabTest {
	category = strings.TrimSpace(category)
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]LabTest, 0, len(tests))
	for _, t := range tests {
		if category != "" && !strings.EqualFold(t.Category, category) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(t.TestName), query) &&
			!strings.Contains(strings.ToLower(t.Description), query) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !strings.EqualFold(out[i].Category, out[j].Category) {
			return strings.ToLower(out[i].Category) < strings.ToLower(out[j].Category)
		}
		return strings.ToLower(out[i].TestName) < strings.ToLower(out[j].TestName)
	})
	return out
}

// TestCategories returns the distinct categories in sorted order.
func TestCategories(tests []LabTest) []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, t := range tests {
		if t.Category == "" {
			continue
		}
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		categories = append(categories, t.Category)
	}
	sort.Strings(categories)
	return categories
}
