package handler

import (
	"net/http"

	"lab-appointment-web/internal/delivery/http/middleware"
	"lab-appointment-web/internal/usecase"
	"lab-appointment-web/pkg/response"
)

type LabTestHandler struct {
	labTestUsecase usecase.LabTestUsecase
}

func NewLabTestHandler(labTestUsecase usecase.LabTestUsecase) *LabTestHandler {
	return &LabTestHandler{labTestUsecase: labTestUsecase}
}

// GetMenu lists the active tests
// @Summary Test menu
// @Tags Tests
// @Produce json
// @Param category query string false "Category"
// @Param q query string false "Name or description"
// @Success 200 {object} response.Response
// @Router /tests [get]
func (h *LabTestHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	menu, err := h.labTestUsecase.GetMenu(r.Context(), middleware.GetSessionFromContext(r.Context()), query.Get("category"), query.Get("q"))
	if err != nil {
		loadFailed(w, err, "tests")
		return
	}

	response.Success(w, http.StatusOK, "Tests retrieved successfully", menu)
}
