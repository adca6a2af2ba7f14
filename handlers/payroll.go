package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/logger"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/models"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/response"
)

type PayrollHandler struct {
	payroll PayrollService
}

func NewPayrollHandler(payroll PayrollService) *PayrollHandler {
	return &PayrollHandler{payroll: payroll}
}

// Generate runs payroll for the month in the path ("YYYY-MM").
func (h *PayrollHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r, (*models.User).CanRunPayroll) {
		return
	}
	month := chi.URLParam(r, "month")
	logger.Logger.Info("payroll requested", zap.String("month", month), zap.String("by", actor(r)))

	run, err := h.payroll.Generate(r.Context(), month)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Created(w, run)
}

func (h *PayrollHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r, (*models.User).CanRunPayroll) {
		return
	}
	month := chi.URLParam(r, "month")
	records, err := h.payroll.List(r.Context(), month)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.SuccessWithMeta(w, records, map[string]interface{}{"month": month})
}
