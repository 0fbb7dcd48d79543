package dto

import "github.com/shopspring/decimal"

// Request DTOs

type PatientStepRequest struct {
	Mode    string `json:"mode" validate:"required,oneof=SELF FAMILY"`
	Name    string `json:"name" validate:"max=100"`
	Age     string `json:"age" validate:"max=3"`
	Gender  string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Mobile  string `json:"mobile" validate:"max=20"`
	Advance bool   `json:"advance"`
}

type TestStepRequest struct {
	TestIDs []int64 `json:"test_ids" validate:"omitempty,dive,gt=0"`
	Toggle  *int64  `json:"toggle" validate:"omitempty,gt=0"`
	Advance bool    `json:"advance"`
}

type VisitStepRequest struct {
	HomeVisit         bool   `json:"home_visit"`
	CollectionAddress string `json:"collection_address" validate:"max=500"`
	AppointmentTime   string `json:"appointment_time" validate:"max=40"`
}

// Response DTOs

type PatientDetailsResponse struct {
	Name   string `json:"name"`
	Age    string `json:"age"`
	Gender string `json:"gender"`
	Mobile string `json:"mobile"`
}

type BookingDraftResponse struct {
	Step              int                    `json:"step"`
	StepName          string                 `json:"step_name"`
	Mode              string                 `json:"mode"`
	Patient           PatientDetailsResponse `json:"patient"`
	SelectedTests     []LabTestResponse      `json:"selected_tests"`
	AvailableTests    []LabTestResponse      `json:"available_tests,omitempty"`
	HomeVisit         bool                   `json:"home_visit"`
	CollectionAddress string                 `json:"collection_address"`
	AppointmentTime   string                 `json:"appointment_time"`
	Subtotal          decimal.Decimal        `json:"subtotal"`
	HomeVisitFee      decimal.Decimal        `json:"home_visit_fee"`
	Total             decimal.Decimal        `json:"total"`
	CanAdvance        bool                   `json:"can_advance"`
	Blocker           string                 `json:"blocker,omitempty"`
}

type BookingSubmitResponse struct {
	Appointment *AppointmentResponse `json:"appointment"`
	Redirect    string               `json:"redirect"`
}
