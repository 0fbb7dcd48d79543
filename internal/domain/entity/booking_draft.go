package entity

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BookingStep is a state of the booking wizard
type BookingStep int

const (
	StepPatientDetails BookingStep = iota + 1
	StepTestSelection
	StepVisitDetails
)

func (s BookingStep) String() string {
	switch s {
	case StepPatientDetails:
		return "patient_details"
	case StepTestSelection:
		return "test_selection"
	case StepVisitDetails:
		return "visit_details"
	default:
		return "unknown"
	}
}

// BookingMode says who the booking is for
type BookingMode string

const (
	BookingModeSelf   BookingMode = "SELF"
	BookingModeFamily BookingMode = "FAMILY"
)

var (
	ErrPatientDetailsIncomplete = errors.New("patient name, age and mobile are required")
	ErrInvalidPatientAge        = errors.New("patient age must be a positive number")
	ErrNoTestsSelected          = errors.New("select at least one test")
	ErrTestNotBookable          = errors.New("test is not available for booking")
	ErrAddressRequired          = errors.New("collection address is required for home visits")
	ErrTimeRequired             = errors.New("preferred date and time is required")
	ErrInvalidTime              = errors.New("preferred date and time is not valid")
	ErrWrongStep                = errors.New("action not allowed at this step")
	ErrFirstStep                = errors.New("already at the first step")
)

// PatientDetails are the fields of the first wizard step
type PatientDetails struct {
	Name   string `json:"name"`
	Age    string `json:"age"`
	Gender string `json:"gender"`
	Mobile string `json:"mobile"`
}

func (p PatientDetails) complete() bool {
	return strings.TrimSpace(p.Name) != "" &&
		strings.TrimSpace(p.Age) != "" &&
		strings.TrimSpace(p.Mobile) != ""
}

// BookingDraft is the booking wizard state. Transitions are linear: one
// step forward when the current step is valid, or one step back.
type BookingDraft struct {
	Step              BookingStep    `json:"step"`
	Mode              BookingMode    `json:"mode"`
	Patient           PatientDetails `json:"patient"`
	SelectedTestIDs   []int64        `json:"selectedTestIds"`
	HomeVisit         bool           `json:"homeVisit"`
	CollectionAddress string         `json:"collectionAddress"`
	AppointmentTime   string         `json:"appointmentTime"`
}

// NewBookingDraft starts a self booking pre-filled from the profile.
func NewBookingDraft(profile *User) *BookingDraft {
	d := &BookingDraft{Step: StepPatientDetails, Mode: BookingModeSelf}
	d.Prefill(profile)
	return d
}

// Prefill copies the profile into the patient fields. The fields stay
// editable afterwards.
func (d *BookingDraft) Prefill(profile *User) {
	d.Patient = PatientDetails{Gender: "Male"}
	if profile == nil {
		return
	}
	d.Patient.Name = profile.DisplayName()
	if profile.Age != nil {
		d.Patient.Age = strconv.Itoa(*profile.Age)
	}
	if profile.Gender != "" {
		d.Patient.Gender = profile.Gender
	}
	d.Patient.Mobile = profile.PhoneNumber
}

// SetPatient stores step-one input. Switching mode re-fills from the
// profile (SELF) or clears the fields (FAMILY) before applying input.
func (d *BookingDraft) SetPatient(mode BookingMode, details PatientDetails, profile *User) error {
	if d.Step != StepPatientDetails {
		return ErrWrongStep
	}
	if mode != d.Mode {
		if mode == BookingModeSelf {
			d.Prefill(profile)
		} else {
			d.Patient = PatientDetails{Gender: "Male"}
		}
		d.Mode = mode
	}
	if details.Name != "" {
		d.Patient.Name = details.Name
	}
	if details.Age != "" {
		d.Patient.Age = details.Age
	}
	if details.Gender != "" {
		d.Patient.Gender = details.Gender
	}
	if details.Mobile != "" {
		d.Patient.Mobile = details.Mobile
	}
	return nil
}

// ToggleTest selects or deselects an active test.
func (d *BookingDraft) ToggleTest(id int64, catalog LabTestCatalog) error {
	if d.Step != StepTestSelection {
		return ErrWrongStep
	}
	for i, selected := range d.SelectedTestIDs {
		if selected == id {
			d.SelectedTestIDs = append(d.SelectedTestIDs[:i], d.SelectedTestIDs[i+1:]...)
			return nil
		}
	}
	if t, ok := catalog[id]; !ok || !t.Active {
		return ErrTestNotBookable
	}
	d.SelectedTestIDs = append(d.SelectedTestIDs, id)
	return nil
}

// SelectTests replaces the selection, keeping the given order and
// dropping duplicates.
func (d *BookingDraft) SelectTests(ids []int64, catalog LabTestCatalog) error {
	if d.Step != StepTestSelection {
		return ErrWrongStep
	}
	seen := make(map[int64]struct{}, len(ids))
	selected := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		if t, ok := catalog[id]; !ok || !t.Active {
			return ErrTestNotBookable
		}
		seen[id] = struct{}{}
		selected = append(selected, id)
	}
	d.SelectedTestIDs = selected
	return nil
}

// SetVisit stores step-three input.
func (d *BookingDraft) SetVisit(homeVisit bool, address, appointmentTime string) error {
	if d.Step != StepVisitDetails {
		return ErrWrongStep
	}
	d.HomeVisit = homeVisit
	d.CollectionAddress = address
	d.AppointmentTime = appointmentTime
	return nil
}

// CanAdvance validates the current step.
func (d *BookingDraft) CanAdvance() error {
	switch d.Step {
	case StepPatientDetails:
		if !d.Patient.complete() {
			return ErrPatientDetailsIncomplete
		}
		if age, err := strconv.Atoi(strings.TrimSpace(d.Patient.Age)); err != nil || age <= 0 {
			return ErrInvalidPatientAge
		}
		return nil
	case StepTestSelection:
		if len(d.SelectedTestIDs) == 0 {
			return ErrNoTestsSelected
		}
		return nil
	default:
		return ErrWrongStep
	}
}

// Advance moves one step forward.
func (d *BookingDraft) Advance() error {
	if err := d.CanAdvance(); err != nil {
		return err
	}
	d.Step++
	return nil
}

// Back moves one step backward, keeping all entered data.
func (d *BookingDraft) Back() error {
	if d.Step <= StepPatientDetails {
		return ErrFirstStep
	}
	d.Step--
	return nil
}

// ValidateSubmit checks the final step.
func (d *BookingDraft) ValidateSubmit(loc *time.Location) error {
	if d.Step != StepVisitDetails {
		return ErrWrongStep
	}
	if d.HomeVisit && strings.TrimSpace(d.CollectionAddress) == "" {
		return ErrAddressRequired
	}
	if strings.TrimSpace(d.AppointmentTime) == "" {
		return ErrTimeRequired
	}
	if _, ok := ParseAppointmentTime(d.AppointmentTime, loc); !ok {
		return ErrInvalidTime
	}
	return nil
}

// Subtotal sums the prices of the selected tests found in the catalog.
func (d *BookingDraft) Subtotal(catalog LabTestCatalog) decimal.Decimal {
	total := decimal.Zero
	for _, id := range d.SelectedTestIDs {
		if t, ok := catalog[id]; ok {
			total = total.Add(t.Price)
		}
	}
	return total
}

// Total is the client-side estimate: tests plus the home visit fee.
func (d *BookingDraft) Total(catalog LabTestCatalog, homeVisitFee decimal.Decimal) decimal.Decimal {
	total := d.Subtotal(catalog)
	if d.HomeVisit {
		total = total.Add(homeVisitFee)
	}
	return total
}

// BookAppointmentRequest is the payload of POST /appointments/book
type BookAppointmentRequest struct {
	TestIDs           []int64 `json:"testIds"`
	AppointmentTime   string  `json:"appointmentTime"`
	IsHomeVisit       bool    `json:"isHomeVisit"`
	CollectionAddress *string `json:"collectionAddress"`
	PatientName       *string `json:"patientName"`
	PatientAge        *int    `json:"patientAge"`
	PatientGender     *string `json:"patientGender"`
	PatientMobile     *string `json:"patientMobile"`
}

// ToRequest composes the API payload. The time is sent as a local
// date-time, the format the lab API accepts.
func (d *BookingDraft) ToRequest(loc *time.Location) (*BookAppointmentRequest, error) {
	if err := d.ValidateSubmit(loc); err != nil {
		return nil, err
	}
	at, _ := ParseAppointmentTime(d.AppointmentTime, loc)
	age, err := strconv.Atoi(strings.TrimSpace(d.Patient.Age))
	if err != nil {
		return nil, ErrInvalidPatientAge
	}

	req := &BookAppointmentRequest{
		TestIDs:         append([]int64(nil), d.SelectedTestIDs...),
		AppointmentTime: at.In(loc).Format("2006-01-02T15:04:05"),
		IsHomeVisit:     d.HomeVisit,
		PatientName:     stringPtr(strings.TrimSpace(d.Patient.Name)),
		PatientAge:      &age,
		PatientGender:   stringPtr(d.Patient.Gender),
		PatientMobile:   stringPtr(strings.TrimSpace(d.Patient.Mobile)),
	}
	if d.HomeVisit {
		req.CollectionAddress = stringPtr(strings.TrimSpace(d.CollectionAddress))
	}
	return req, nil
}

func stringPtr(s string) *string {
	return &s
}
