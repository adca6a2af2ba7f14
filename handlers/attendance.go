package handlers

import (
	"bytes"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/apperrors"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/attendance"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/export"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/logger"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/middleware"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/models"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/reports"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/response"
)

const maxLocationLength = 255

type AttendanceHandler struct {
	events  EventAppender
	users   UserStore
	reports *reports.Service
	now     func() time.Time
}

func NewAttendanceHandler(events EventAppender, users UserStore, rs *reports.Service) *AttendanceHandler {
	return &AttendanceHandler{
		events:  events,
		users:   users,
		reports: rs,
		now:     time.Now,
	}
}

type scanRequest struct {
	Location string `json:"location"`
}

func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, attendance.KindCheckIn)
}

func (h *AttendanceHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, attendance.KindCheckOut)
}

func (h *AttendanceHandler) record(w http.ResponseWriter, r *http.Request, kind attendance.EventKind) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		response.Error(w, r, apperrors.Unauthorized)
		return
	}
	user := session.User()
	if !user.IsStaff() {
		response.Error(w, r, apperrors.Forbidden)
		return
	}
	if !user.CanRecordAttendance() {
		response.Error(w, r, apperrors.EmployeeNotLinked)
		return
	}

	var req scanRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		response.BindError(w, err)
		return
	}
	if utf8.RuneCountInString(req.Location) > maxLocationLength {
		response.Error(w, r, apperrors.InvalidRequest.WithMessage("location is too long"))
		return
	}

	now := h.now()
	ev := &models.AttendanceEvent{
		EmployeeID: session.EmployeeID,
		Date:       attendance.CivilDate(now, h.reports.Location()),
		Type:       string(kind),
		ScannedAt:  now,
		Location:   req.Location,
	}
	if err := h.events.Append(r.Context(), ev); err != nil {
		logger.Logger.Error("record attendance",
			zap.String("employee_id", session.EmployeeID),
			zap.String("type", string(kind)),
			zap.Error(err),
		)
		response.Error(w, r, apperrors.AttendanceWriteFailed)
		return
	}

	response.Created(w, ev)
}

// Mine is the signed-in employee's summary over from/to.
func (h *AttendanceHandler) Mine(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		response.Error(w, r, apperrors.Unauthorized)
		return
	}
	if session.EmployeeID == "" {
		response.Error(w, r, apperrors.EmployeeNotLinked)
		return
	}

	filter := rangeFromQuery(r, h.reports)
	filter.EmployeeID = session.EmployeeID
	h.writeSummary(w, r, filter)
}

// Employee is one employee's summary. Admins see anyone; others only
// themselves.
func (h *AttendanceHandler) Employee(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		response.Error(w, r, apperrors.Unauthorized)
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if !session.User().CanViewAttendanceOf(employeeID) {
		response.Error(w, r, apperrors.Forbidden)
		return
	}

	filter := rangeFromQuery(r, h.reports)
	filter.EmployeeID = employeeID
	h.writeSummary(w, r, filter)
}

// WorkingDays lists the dates of from/to that count for attendance, after
// Sundays and excluded dates are removed.
func (h *AttendanceHandler) WorkingDays(w http.ResponseWriter, r *http.Request) {
	filter := rangeFromQuery(r, h.reports)
	days, err := h.reports.WorkingDays(r.Context(), filter)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.SuccessWithMeta(w, days, map[string]interface{}{
		"from":  filter.From,
		"to":    filter.To,
		"count": len(days),
	})
}

func (h *AttendanceHandler) writeSummary(w http.ResponseWriter, r *http.Request, filter reports.RangeFilter) {
	summary, err := h.reports.EmployeeSummary(r.Context(), filter)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.SuccessWithMeta(w, summary, map[string]interface{}{
		"from": filter.From,
		"to":   filter.To,
	})
}

// Roster is the admin view of every active staff member.
func (h *AttendanceHandler) Roster(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r, (*models.User).CanViewAllAttendance) {
		return
	}
	roster, err := h.roster(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Success(w, roster)
}

// Export downloads the roster as csv (default), xlsx or pdf.
func (h *AttendanceHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r, (*models.User).CanExport) {
		return
	}
	format := export.FormatCSV
	if v := r.URL.Query().Get("format"); v != "" {
		f, ok := export.ParseFormat(v)
		if !ok {
			response.Error(w, r, apperrors.InvalidRequest.WithMessage("format must be csv, xlsx or pdf"))
			return
		}
		format = f
	}

	roster, err := h.roster(r)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(format, &buf, roster, h.reports.Location()); err != nil {
		response.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename="+format.Filename(roster.From, roster.To))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *AttendanceHandler) roster(r *http.Request) (*reports.Roster, error) {
	filter := rangeFromQuery(r, h.reports)
	if err := h.reports.Validate(filter); err != nil {
		return nil, err
	}

	staff, err := h.users.ListStaff(r.Context())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.AttendanceFetchFailed, err)
	}
	return h.reports.Roster(r.Context(), filter, toEmployees(staff))
}
