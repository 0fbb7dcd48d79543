package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type AppointmentListRequest struct {
	Query  string `json:"q" validate:"max=100"`
	Status string `json:"status" validate:"omitempty,oneof=ALL PENDING CONFIRMED COMPLETED CANCELLED"`
	Page   int    `json:"page" validate:"gte=0"`
}

type UpdateStatusRequest struct {
	Status    string  `json:"status" validate:"required,oneof=CONFIRMED COMPLETED CANCELLED"`
	ReportURL *string `json:"report_url" validate:"omitempty,url"`
}

// Response DTOs

type StatusBadgeResponse struct {
	Label string `json:"label"`
	Tone  string `json:"tone"`
	Icon  string `json:"icon"`
}

type StatusActionResponse struct {
	Target  string `json:"target"`
	Label   string `json:"label"`
	Confirm string `json:"confirm"`
}

type AppointmentResponse struct {
	ID                int64                  `json:"id"`
	PatientName       string                 `json:"patient_name"`
	PatientAge        *int                   `json:"patient_age"`
	PatientGender     string                 `json:"patient_gender"`
	PatientMobile     string                 `json:"patient_mobile"`
	Tests             []LabTestResponse      `json:"tests"`
	TestsLabel        string                 `json:"tests_label"`
	AppointmentTime   string                 `json:"appointment_time"`
	ScheduledAt       *time.Time             `json:"scheduled_at"`
	HomeVisit         bool                   `json:"home_visit"`
	CollectionAddress string                 `json:"collection_address"`
	TotalAmount       decimal.Decimal        `json:"total_amount"`
	Status            string                 `json:"status"`
	Badge             StatusBadgeResponse    `json:"badge"`
	ReportURL         *string                `json:"report_url"`
	Actions           []StatusActionResponse `json:"actions,omitempty"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Query        string                `json:"q"`
	Status       string                `json:"status"`
	Sort         string                `json:"sort"`
	Total        int                   `json:"total"`
}

type AppointmentActionsResponse struct {
	AppointmentID int64                  `json:"appointment_id"`
	Status        string                 `json:"status"`
	Actions       []StatusActionResponse `json:"actions"`
}

type PatientDashboardResponse struct {
	GreetingName      string                `json:"greeting_name"`
	TotalAppointments int                   `json:"total_appointments"`
	UpcomingCount     int                   `json:"upcoming_count"`
	Upcoming          []AppointmentResponse `json:"upcoming"`
}

type AdminDashboardResponse struct {
	PendingCount  int                   `json:"pending_count"`
	TodayCount    int                   `json:"today_count"`
	TotalPatients int                   `json:"total_patients"`
	Recent        []AppointmentResponse `json:"recent"`
}
