package converter

import (
	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// BookingDraftToResponse renders the wizard state with live totals. The
// available tests are listed only on the test selection step.
func BookingDraftToResponse(d *entity.BookingDraft, tests []entity.LabTest, fee decimal.Decimal) *dto.BookingDraftResponse {
	catalog := entity.NewLabTestCatalog(tests)

	selected := make([]dto.LabTestResponse, 0, len(d.SelectedTestIDs))
	for _, id := range d.SelectedTestIDs {
		if t, ok := catalog[id]; ok {
			selected = append(selected, LabTestToResponse(t))
		}
	}

	response := &dto.BookingDraftResponse{
		Step:     int(d.Step),
		StepName: d.Step.String(),
		Mode:     string(d.Mode),
		Patient: dto.PatientDetailsResponse{
			Name:   d.Patient.Name,
			Age:    d.Patient.Age,
			Gender: d.Patient.Gender,
			Mobile: d.Patient.Mobile,
		},
		SelectedTests:     selected,
		HomeVisit:         d.HomeVisit,
		CollectionAddress: d.CollectionAddress,
		AppointmentTime:   d.AppointmentTime,
		Subtotal:          d.Subtotal(catalog),
		HomeVisitFee:      fee,
		Total:             d.Total(catalog, fee),
	}

	if d.Step == entity.StepTestSelection {
		response.AvailableTests = LabTestsToResponses(entity.ActiveTests(tests))
	}

	if d.Step == entity.StepVisitDetails {
		response.CanAdvance = true
	} else if err := d.CanAdvance(); err != nil {
		response.Blocker = err.Error()
	} else {
		response.CanAdvance = true
	}
	return response
}
