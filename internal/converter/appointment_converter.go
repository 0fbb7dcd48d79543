package converter

import (
	"time"

	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/domain/entity"
)

// AppointmentToResponse renders an appointment with every fallback label
// applied. Actions are included only when withActions is set (admin views).
func AppointmentToResponse(a *entity.Appointment, loc *time.Location, withActions bool) dto.AppointmentResponse {
	mobile := a.PatientMobileOrProfile()
	if mobile == "" {
		mobile = entity.NotProvided
	}

	badge := a.Status.Badge()
	response := dto.AppointmentResponse{
		ID:                a.ID,
		PatientName:       a.PatientDisplayName(),
		PatientAge:        a.PatientAgeOrProfile(),
		PatientGender:     a.PatientGenderOrProfile(),
		PatientMobile:     mobile,
		Tests:             LabTestsToResponses(a.Tests),
		TestsLabel:        a.TestsLabel(),
		AppointmentTime:   a.AppointmentTime,
		HomeVisit:         a.HomeVisit,
		CollectionAddress: a.AddressLabel(),
		TotalAmount:       a.TotalAmount,
		Status:            string(a.Status),
		Badge: dto.StatusBadgeResponse{
			Label: badge.Label,
			Tone:  badge.Tone,
			Icon:  badge.Icon,
		},
	}

	if at, ok := entity.ParseAppointmentTime(a.AppointmentTime, loc); ok {
		response.ScheduledAt = &at
	}
	if url, ok := a.Report(); ok {
		response.ReportURL = &url
	}
	if withActions {
		response.Actions = StatusActionsToResponses(a.Status.Actions())
	}
	return response
}

func AppointmentsToResponses(list []entity.Appointment, loc *time.Location, withActions bool) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(list))
	for i := range list {
		responses[i] = AppointmentToResponse(&list[i], loc, withActions)
	}
	return responses
}

func StatusActionsToResponses(actions []entity.StatusAction) []dto.StatusActionResponse {
	responses := make([]dto.StatusActionResponse, len(actions))
	for i, action := range actions {
		responses[i] = dto.StatusActionResponse{
			Target:  string(action.Target),
			Label:   action.Label,
			Confirm: action.Confirm,
		}
	}
	return responses
}
