package entity

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

func sampleTests() []LabTest {
	return []LabTest{
		{ID: 1, TestName: "Lipid Profile", Category: "Blood", Price: decimal.NewFromInt(550), Active: true},
		{ID: 2, TestName: "CBC", Category: "blood", Description: "complete blood count", Price: decimal.NewFromInt(300), Active: true},
		{ID: 3, TestName: "Urine Routine", Category: "Urine", Price: decimal.NewFromInt(150), Active: false},
		{ID: 4, TestName: "Thyroid", Category: "Hormone", Price: decimal.NewFromInt(400), Active: true},
	}
}

func testIDs(list []LabTest) []int64 {
	out := make([]int64, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}

func TestActiveTests(t *testing.T) {
	got := ActiveTests(sampleTests())
	if fmt.Sprint(testIDs(got)) != "[1 2 4]" {
		t.Errorf("unexpected active tests %v", testIDs(got))
	}
}

func TestFilterTestMenu(t *testing.T) {
	tests := []struct {
		name     string
		category string
		query    string
		want     string
	}{
		{"no filter sorts by category then name", "", "", "[2 1 4 3]"},
		{"category is case-insensitive", "BLOOD", "", "[2 1]"},
		{"query matches description", "", "count", "[2]"},
		{"category and query combine", "Blood", "lipid", "[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterTestMenu(sampleTests(), tt.category, tt.query)
			if fmt.Sprint(testIDs(got)) != tt.want {
				t.Errorf("got %v, want %s", testIDs(got), tt.want)
			}
		})
	}
}

func TestCategoriesAreDistinctAndSorted(t *testing.T) {
	got := TestCategories(sampleTests())
	if fmt.Sprint(got) != "[Blood Hormone Urine blood]" {
		t.Errorf("unexpected categories %v", got)
	}
}

func TestLabTestCatalog(t *testing.T) {
	catalog := NewLabTestCatalog(sampleTests())
	if len(catalog) != 4 || catalog[4].TestName != "Thyroid" {
		t.Errorf("unexpected catalog %v", catalog)
	}
}
