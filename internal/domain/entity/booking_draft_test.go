package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var fee = decimal.NewFromInt(100)

func catalogOf(tests ...LabTest) LabTestCatalog {
	return NewLabTestCatalog(tests)
}

func draftAtTests(t *testing.T) *BookingDraft {
	t.Helper()
	age := 34
	d := NewBookingDraft(&User{FullName: "Asha Patil", Age: &age, PhoneNumber: "9820000000", Gender: "Female"})
	if err := d.Advance(); err != nil {
		t.Fatalf("advance from patient details: %v", err)
	}
	return d
}

func TestBookingDraft_PriceScenario(t *testing.T) {
	catalog := catalogOf(LabTest{ID: 1, Price: decimal.NewFromInt(300), Active: true})
	d := draftAtTests(t)

	if err := d.ToggleTest(1, catalog); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := d.Advance(); err != nil {
		t.Fatalf("advance to visit: %v", err)
	}

	if err := d.SetVisit(false, "", "2025-06-01T09:00"); err != nil {
		t.Fatalf("set visit: %v", err)
	}
	if got := d.Total(catalog, fee); !got.Equal(decimal.NewFromInt(300)) {
		t.Errorf("lab visit total = %s, want 300", got)
	}

	if err := d.SetVisit(true, "12 MG Road", "2025-06-01T09:00"); err != nil {
		t.Fatalf("set visit: %v", err)
	}
	if got := d.Total(catalog, fee); !got.Equal(decimal.NewFromInt(400)) {
		t.Errorf("home visit total = %s, want 400", got)
	}
	if len(d.SelectedTestIDs) != 1 {
		t.Error("expected selection to survive visit type change")
	}
}

func TestBookingDraft_TotalSumsSelectedPrices(t *testing.T) {
	catalog := catalogOf(
		LabTest{ID: 1, Price: decimal.RequireFromString("250.50"), Active: true},
		LabTest{ID: 2, Price: decimal.NewFromInt(600), Active: true},
		LabTest{ID: 3, Price: decimal.NewFromInt(70), Active: true},
	)
	d := draftAtTests(t)
	if err := d.SelectTests([]int64{1, 2, 2}, catalog); err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := d.Total(catalog, fee); !got.Equal(decimal.RequireFromString("850.50")) {
		t.Errorf("total = %s, want 850.50", got)
	}
}

func TestBookingDraft_PatientStepRequiresAllFields(t *testing.T) {
	d := NewBookingDraft(nil)
	if err := d.Advance(); !errors.Is(err, ErrPatientDetailsIncomplete) {
		t.Fatalf("expected incomplete error, got %v", err)
	}

	if err := d.SetPatient(BookingModeFamily, PatientDetails{Name: "Kiran", Age: "x", Mobile: "98"}, nil); err != nil {
		t.Fatalf("set patient: %v", err)
	}
	if err := d.Advance(); !errors.Is(err, ErrInvalidPatientAge) {
		t.Fatalf("expected invalid age, got %v", err)
	}

	if err := d.SetPatient(BookingModeFamily, PatientDetails{Age: "8"}, nil); err != nil {
		t.Fatalf("set patient: %v", err)
	}
	if err := d.Advance(); err != nil {
		t.Fatalf("expected advance, got %v", err)
	}
	if d.Step != StepTestSelection {
		t.Errorf("expected test selection, got %s", d.Step)
	}
}

func TestBookingDraft_SelfModeStillRequiresFields(t *testing.T) {
	d := NewBookingDraft(&User{FullName: "No Phone"})
	if err := d.Advance(); !errors.Is(err, ErrPatientDetailsIncomplete) {
		t.Fatalf("expected incomplete error for self mode, got %v", err)
	}
}

func TestBookingDraft_ModeSwitchRefills(t *testing.T) {
	age := 40
	profile := &User{FullName: "Asha Patil", Age: &age, PhoneNumber: "9820000000"}
	d := NewBookingDraft(profile)

	if err := d.SetPatient(BookingModeFamily, PatientDetails{}, profile); err != nil {
		t.Fatalf("set patient: %v", err)
	}
	if d.Patient.Name != "" {
		t.Errorf("expected family mode to clear fields, got %q", d.Patient.Name)
	}

	if err := d.SetPatient(BookingModeSelf, PatientDetails{Mobile: "9000000000"}, profile); err != nil {
		t.Fatalf("set patient: %v", err)
	}
	if d.Patient.Name != "Asha Patil" || d.Patient.Age != "40" {
		t.Errorf("expected self mode to refill from profile, got %+v", d.Patient)
	}
	if d.Patient.Mobile != "9000000000" {
		t.Errorf("expected edited mobile to stick, got %q", d.Patient.Mobile)
	}
}

func TestBookingDraft_TestStepRules(t *testing.T) {
	catalog := catalogOf(
		LabTest{ID: 1, Active: true},
		LabTest{ID: 2, Active: false},
	)
	d := draftAtTests(t)

	if err := d.Advance(); !errors.Is(err, ErrNoTestsSelected) {
		t.Fatalf("expected no tests error, got %v", err)
	}
	if err := d.ToggleTest(2, catalog); !errors.Is(err, ErrTestNotBookable) {
		t.Errorf("expected inactive test rejected, got %v", err)
	}
	if err := d.ToggleTest(99, catalog); !errors.Is(err, ErrTestNotBookable) {
		t.Errorf("expected unknown test rejected, got %v", err)
	}

	_ = d.ToggleTest(1, catalog)
	_ = d.ToggleTest(1, catalog)
	if len(d.SelectedTestIDs) != 0 {
		t.Errorf("expected toggle twice to deselect, got %v", d.SelectedTestIDs)
	}
}

func TestBookingDraft_NoSkippingAndBack(t *testing.T) {
	d := NewBookingDraft(nil)
	if err := d.SetVisit(true, "addr", "2025-01-01T10:00"); !errors.Is(err, ErrWrongStep) {
		t.Errorf("expected wrong step, got %v", err)
	}
	if err := d.Back(); !errors.Is(err, ErrFirstStep) {
		t.Errorf("expected first step error, got %v", err)
	}

	d = draftAtTests(t)
	if err := d.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if d.Step != StepPatientDetails || d.Patient.Name != "Asha Patil" {
		t.Errorf("expected data kept on back, got %+v", d)
	}
}

func TestBookingDraft_SubmitRules(t *testing.T) {
	catalog := catalogOf(LabTest{ID: 1, Price: decimal.NewFromInt(300), Active: true})
	d := draftAtTests(t)
	_ = d.ToggleTest(1, catalog)
	_ = d.Advance()

	tests := []struct {
		name    string
		home    bool
		address string
		at      string
		want    error
	}{
		{"missing time", false, "", "", ErrTimeRequired},
		{"home without address", true, "  ", "2025-06-01T09:00", ErrAddressRequired},
		{"garbage time", false, "", "soon", ErrInvalidTime},
		{"lab visit ok", false, "", "2025-06-01T09:00", nil},
		{"home visit ok", true, "12 MG Road", "2025-06-01T09:00", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_ = d.SetVisit(tt.home, tt.address, tt.at)
			err := d.ValidateSubmit(time.UTC)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBookingDraft_ToRequest(t *testing.T) {
	catalog := catalogOf(LabTest{ID: 1, Price: decimal.NewFromInt(300), Active: true})
	d := draftAtTests(t)
	_ = d.ToggleTest(1, catalog)
	_ = d.Advance()
	_ = d.SetVisit(false, "ignored for lab visits", "2025-06-01T09:00")

	req, err := d.ToRequest(time.UTC)
	if err != nil {
		t.Fatalf("to request: %v", err)
	}
	if req.AppointmentTime != "2025-06-01T09:00:00" {
		t.Errorf("unexpected time %q", req.AppointmentTime)
	}
	if req.CollectionAddress != nil {
		t.Error("expected no address for lab visit")
	}
	if req.PatientAge == nil || *req.PatientAge != 34 {
		t.Errorf("unexpected age %v", req.PatientAge)
	}
	if len(req.TestIDs) != 1 || req.TestIDs[0] != 1 {
		t.Errorf("unexpected test ids %v", req.TestIDs)
	}
}
