package converter

import (
	"lab-appointment-web/internal/delivery/dto"
	"lab-appointment-web/internal/domain/entity"
)

func LabTestToResponse(t entity.LabTest) dto.LabTestResponse {
	return dto.LabTestResponse{
		ID:          t.ID,
		TestName:    t.TestName,
		Category:    t.Category,
		Description: t.Description,
		Price:       t.Price,
		Active:      t.Active,
	}
}

func LabTestsToResponses(tests []entity.LabTest) []dto.LabTestResponse {
	responses := make([]dto.LabTestResponse, len(tests))
	for i, t := range tests {
		responses[i] = LabTestToResponse(t)
	}
	return responses
}
