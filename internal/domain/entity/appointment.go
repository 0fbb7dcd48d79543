package entity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the lifecycle stage of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// Fallback display text for optional fields
const (
	NoTestsLabel    = "No tests assigned"
	NotProvided     = "Not provided"
	NoAddressLabel  = "No address provided"
	SelfPatientName = "Self"
)

// Appointment is a booking as returned by the lab API.
type Appointment struct {
	ID                int64             `json:"id"`
	Patient           *User             `json:"patient,omitempty"`
	Tests             []LabTest         `json:"tests"`
	AppointmentTime   string            `json:"appointmentTime"`
	PatientName       *string           `json:"patientName"`
	PatientAge        *int              `json:"patientAge"`
	PatientGender     *string           `json:"patientGender"`
	PatientMobile     *string           `json:"patientMobile"`
	HomeVisit         bool              `json:"homeVisit"`
	CollectionAddress *string           `json:"collectionAddress"`
	TotalAmount       decimal.Decimal   `json:"totalAmount"`
	Status            AppointmentStatus `json:"status"`
	ReportURL         *string           `json:"reportUrl"`
}

// UnmarshalJSON accepts both "homeVisit" and "isHomeVisit" for the visit flag.
func (a *Appointment) UnmarshalJSON(data []byte) error {
	type alias Appointment
	aux := struct {
		*alias
		IsHomeVisit *bool `json:"isHomeVisit"`
	}{alias: (*alias)(a)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.IsHomeVisit != nil && *aux.IsHomeVisit {
		a.HomeVisit = true
	}
	return nil
}

var appointmentTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseAppointmentTime parses the server's local date-time formats.
// Values without a zone are read in loc.
func ParseAppointmentTime(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range appointmentTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ScheduledAt returns the parsed appointment time; a missing or unparseable
// value yields the zero time so it sorts first.
func (a *Appointment) ScheduledAt() time.Time {
	t, _ := ParseAppointmentTime(a.AppointmentTime, time.UTC)
	return t
}

// PatientDisplayName falls back to the owning account when the booking has
// no explicit patient name.
func (a *Appointment) PatientDisplayName() string {
	if a.PatientName != nil && strings.TrimSpace(*a.PatientName) != "" {
		return *a.PatientName
	}
	if a.Patient != nil {
		if a.Patient.FullName != "" {
			return a.Patient.FullName
		}
		if a.Patient.Username != "" {
			return a.Patient.Username
		}
	}
	return SelfPatientName
}

// PatientMobileOrProfile returns the booking mobile, the account phone, or "".
func (a *Appointment) PatientMobileOrProfile() string {
	if a.PatientMobile != nil && *a.PatientMobile != "" {
		return *a.PatientMobile
	}
	if a.Patient != nil {
		return a.Patient.PhoneNumber
	}
	return ""
}

// PatientAgeOrProfile returns the booking age or the account age.
func (a *Appointment) PatientAgeOrProfile() *int {
	if a.PatientAge != nil {
		return a.PatientAge
	}
	if a.Patient != nil {
		return a.Patient.Age
	}
	return nil
}

// PatientGenderOrProfile returns the booking gender or the account gender.
func (a *Appointment) PatientGenderOrProfile() string {
	if a.PatientGender != nil && *a.PatientGender != "" {
		return *a.PatientGender
	}
	if a.Patient != nil {
		return a.Patient.Gender
	}
	return ""
}

// TestsLabel joins the test names, never returning an empty string.
func (a *Appointment) TestsLabel() string {
	names := make([]string, 0, len(a.Tests))
	for _, t := range a.Tests {
		if t.TestName != "" {
			names = append(names, t.TestName)
		}
	}
	if len(names) == 0 {
		return NoTestsLabel
	}
	return strings.Join(names, ", ")
}

// AddressLabel returns the collection address or fallback text.
func (a *Appointment) AddressLabel() string {
	if a.CollectionAddress != nil && strings.TrimSpace(*a.CollectionAddress) != "" {
		return *a.CollectionAddress
	}
	return NoAddressLabel
}

// Report returns the report URL when present.
func (a *Appointment) Report() (string, bool) {
	if a.ReportURL == nil || strings.TrimSpace(*a.ReportURL) == "" {
		return "", false
	}
	return *a.ReportURL, true
}

// IsUpcoming reports whether the appointment still awaits the visit.
func (a *Appointment) IsUpcoming() bool {
	return a.Status == AppointmentStatusPending || a.Status == AppointmentStatusConfirmed
}

// =============================================================================
// Lifecycle
// =============================================================================

// IsKnown reports whether s is one of the four lifecycle states.
func (s AppointmentStatus) IsKnown() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// NextStatuses returns the legal next states. Unknown states have none.
func (s AppointmentStatus) NextStatuses() []AppointmentStatus {
	switch s {
	case AppointmentStatusPending:
		return []AppointmentStatus{AppointmentStatusConfirmed, AppointmentStatusCancelled}
	case AppointmentStatusConfirmed:
		return []AppointmentStatus{AppointmentStatusCompleted}
	default:
		return nil
	}
}

// CanTransitionTo checks next against the lifecycle table.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, candidate := range s.NextStatuses() {
		if candidate == next {
			return true
		}
	}
	return false
}

// StatusAction is an operator action offered for an appointment.
type StatusAction struct {
	Target  AppointmentStatus `json:"target"`
	Label   string            `json:"label"`
	Confirm string            `json:"confirm"`
}

// Actions returns the actions to present for the current status.
func (s AppointmentStatus) Actions() []StatusAction {
	next := s.NextStatuses()
	actions := make([]StatusAction, 0, len(next))
	for _, target := range next {
		actions = append(actions, StatusAction{
			Target:  target,
			Label:   target.actionLabel(),
			Confirm: fmt.Sprintf("Are you sure you want to mark this as %s?", target),
		})
	}
	return actions
}

func (s AppointmentStatus) actionLabel() string {
	switch s {
	case AppointmentStatusConfirmed:
		return "Confirm"
	case AppointmentStatusCancelled:
		return "Cancel"
	case AppointmentStatusCompleted:
		return "Complete Visit"
	default:
		return string(s)
	}
}

// Badge tones
const (
	ToneWarning = "warning"
	ToneInfo    = "info"
	ToneSuccess = "success"
	ToneDanger  = "danger"
	ToneNeutral = "neutral"
)

// StatusBadge is the visual treatment of a status.
type StatusBadge struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
	Icon  string `json:"icon"`
}

// Badge never fails: unrecognized values get a neutral pending-like badge.
func (s AppointmentStatus) Badge() StatusBadge {
	switch s {
	case AppointmentStatusPending:
		return StatusBadge{Label: string(s), Tone: ToneWarning, Icon: "clock"}
	case AppointmentStatusConfirmed:
		return StatusBadge{Label: string(s), Tone: ToneInfo, Icon: "check-circle"}
	case AppointmentStatusCompleted:
		return StatusBadge{Label: string(s), Tone: ToneSuccess, Icon: "file-text"}
	case AppointmentStatusCancelled:
		return StatusBadge{Label: string(s), Tone: ToneDanger, Icon: "x-circle"}
	}
	label := string(s)
	if strings.TrimSpace(label) == "" {
		label = string(AppointmentStatusPending)
	}
	return StatusBadge{Label: label, Tone: ToneNeutral, Icon: "alert-circle"}
}

// ParseAppointmentStatus normalizes user input into a status.
func ParseAppointmentStatus(raw string) (AppointmentStatus, bool) {
	s := AppointmentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	return s, s.IsKnown()
}
