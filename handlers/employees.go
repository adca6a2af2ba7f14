package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/apperrors"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/config"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/database"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/logger"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/models"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/response"
)

type EmployeesHandler struct {
	config *config.Config
	users  UserStore
}

func NewEmployeesHandler(cfg *config.Config, users UserStore) *EmployeesHandler {
	return &EmployeesHandler{config: cfg, users: users}
}

type createUserRequest struct {
	Username   string          `json:"username"`
	FullName   string          `json:"fullName"`
	Password   string          `json:"password"`
	Role       string          `json:"role"`
	BaseSalary decimal.Decimal `json:"baseSalary"`
}

// Create adds an account. Staff roles are numbered from the employee ID
// sequence; other roles get no employee ID. The new user must change the
// password on first sign-in.
func (h *EmployeesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r, (*models.User).IsAdmin) {
		return
	}
	var req createUserRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		response.BindError(w, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Username == "" || req.FullName == "" {
		response.Error(w, r, apperrors.InvalidRequest.WithMessage("username and fullName are required"))
		return
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		response.Error(w, r, apperrors.InvalidRole)
		return
	}
	if len(req.Password) < minPasswordLength {
		response.Error(w, r, apperrors.WeakPassword)
		return
	}
	if req.BaseSalary.IsNegative() {
		response.Error(w, r, apperrors.InvalidRequest.WithMessage("baseSalary must not be negative"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	user := &models.User{
		Username:           req.Username,
		FullName:           req.FullName,
		PasswordHash:       string(hashedPassword),
		Role:               role,
		BaseSalary:         req.BaseSalary.Round(2),
		Active:             true,
		MustChangePassword: true,
	}
	if user.IsStaff() {
		err = h.users.CreateEmployee(r.Context(), user, h.config.EmployeeIDPrefix)
	} else {
		err = h.users.CreateUser(r.Context(), user)
	}
	if err != nil {
		if errors.Is(err, database.ErrUsernameTaken) {
			response.Error(w, r, apperrors.UsernameTaken)
			return
		}
		response.Error(w, r, err)
		return
	}

	logger.Logger.Info("user created",
		zap.String("by", actor(r)),
		zap.String("username", user.Username),
		zap.String("employee_id", user.EmployeeID),
		zap.String("role", string(user.Role)),
	)
	response.Created(w, user)
}

// List returns the active staff, ordered by employee ID.
func (h *EmployeesHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r, (*models.User).IsAdmin) {
		return
	}
	staff, err := h.users.ListStaff(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Success(w, staff)
}
