package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/apperrors"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/attendance"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/logger"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/middleware"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/models"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/response"
)

const maxDatesPerRequest = 366

type ExcludedDatesHandler struct {
	store ExclusionStore
	loc   *time.Location
}

func NewExcludedDatesHandler(store ExclusionStore, loc *time.Location) *ExcludedDatesHandler {
	return &ExcludedDatesHandler{store: store, loc: loc}
}

func (h *ExcludedDatesHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r, (*models.User).CanManageExcludedDates) {
		return
	}
	dates, err := h.store.ListExcluded(r.Context())
	if err != nil {
		response.Error(w, r, apperrors.Wrap(apperrors.ExclusionFetchFailed, err))
		return
	}
	response.Success(w, dates)
}

type addDatesRequest struct {
	Dates []string `json:"dates"`
}

// Add excludes every date in the body. Dates already excluded are ignored; the
// response reports how many were new.
func (h *ExcludedDatesHandler) Add(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r, (*models.User).CanManageExcludedDates) {
		return
	}
	var req addDatesRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BindError(w, err)
		return
	}
	if len(req.Dates) == 0 {
		response.Error(w, r, apperrors.InvalidRequest.WithMessage("dates is required"))
		return
	}
	if len(req.Dates) > maxDatesPerRequest {
		response.Error(w, r, apperrors.InvalidRequest.WithMessage("too many dates"))
		return
	}

	dates := make([]string, 0, len(req.Dates))
	var invalid []string
	for _, d := range req.Dates {
		d = strings.TrimSpace(d)
		if _, err := attendance.ParseDate(d, h.loc); err != nil {
			invalid = append(invalid, d)
			continue
		}
		dates = append(dates, d)
	}
	if len(invalid) > 0 {
		response.ErrorWithDetails(w, r, apperrors.InvalidDate, map[string]interface{}{"invalid": invalid})
		return
	}

	added, err := h.store.AddExcluded(r.Context(), dates...)
	if err != nil {
		response.Error(w, r, apperrors.Wrap(apperrors.ExclusionWriteFailed, err))
		return
	}

	logger.Logger.Info("excluded dates added",
		zap.String("by", actor(r)),
		zap.Strings("dates", dates),
		zap.Int("added", added),
	)
	response.Created(w, map[string]int{"added": added})
}

func (h *ExcludedDatesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r, (*models.User).CanManageExcludedDates) {
		return
	}
	date := chi.URLParam(r, "date")
	if _, err := attendance.ParseDate(date, h.loc); err != nil {
		response.Error(w, r, apperrors.InvalidDate)
		return
	}

	deleted, err := h.store.DeleteExcluded(r.Context(), date)
	if err != nil {
		response.Error(w, r, apperrors.Wrap(apperrors.ExclusionWriteFailed, err))
		return
	}
	if !deleted {
		response.Error(w, r, apperrors.NotFound.WithMessage("date is not excluded"))
		return
	}

	logger.Logger.Info("excluded date removed", zap.String("by", actor(r)), zap.String("date", date))
	response.NoContent(w)
}

func actor(r *http.Request) string {
	if s := middleware.SessionFromContext(r.Context()); s != nil {
		return s.Username
	}
	return ""
}
