package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/models"
)

type stubUsers struct {
	findFn func(ctx context.Context, id uint) (*models.User, error)
}

func (s stubUsers) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return s.findFn(ctx, id)
}

func usersOf(list ...models.User) stubUsers {
	return stubUsers{findFn: func(_ context.Context, id uint) (*models.User, error) {
		for i := range list {
			if list[i].ID == id {
				return &list[i], nil
			}
		}
		return nil, errors.New("not found")
	}}
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestGuard(t *testing.T) {
	admin := &Session{Role: models.RoleAdmin}
	advocate := &Session{Role: models.RoleAdvocateEmployee}

	cases := []struct {
		name    string
		session *Session
		roles   []models.Role
		want    Decision
	}{
		{"no session", nil, []models.Role{models.RoleAdmin}, RedirectToLogin},
		{"no session any role", nil, nil, RedirectToLogin},
		{"admin on admin route", admin, []models.Role{models.RoleAdmin}, Allow},
		{"advocate on admin route", advocate, []models.Role{models.RoleAdmin}, Deny},
		{"advocate among staff roles", advocate, models.StaffRoles, Allow},
		{"any signed in user", advocate, nil, Allow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Guard(tc.session, tc.roles...); got != tc.want {
				t.Fatalf("Guard = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestAuthAcceptsBearerAndCookie(t *testing.T) {
	SetJWTSecret("test-secret")
	user := models.User{ID: 7, Username: "alice", EmployeeID: "ADV0001", Role: models.RoleAdvocateEmployee, Active: true}
	token, err := GenerateToken(&user, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	var seen *Session
	h := Auth(usersOf(user))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/attendance/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == nil || seen.EmployeeID != "ADV0001" || seen.Role != models.RoleAdvocateEmployee {
		t.Fatalf("bearer session = %+v", seen)
	}

	seen = nil
	req = httptest.NewRequest(http.MethodGet, "/api/attendance/me", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == nil || seen.UserID != 7 {
		t.Fatalf("cookie session = %+v", seen)
	}
}

func TestAuthRejects(t *testing.T) {
	SetJWTSecret("test-secret")
	inactive := models.User{ID: 9, Username: "gone", Role: models.RoleLitigation, Active: false}
	inactiveToken, _ := GenerateToken(&inactive, time.Hour)
	expiredToken, _ := GenerateToken(&models.User{ID: 1, Active: true}, -time.Minute)

	h := Auth(usersOf(inactive))(okHandler)

	cases := map[string]string{
		"missing":  "",
		"garbage":  "not-a-jwt",
		"expired":  expiredToken,
		"inactive": inactiveToken,
	}
	for name, token := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/attendance/me", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d", name, rec.Code)
		}
	}
}

func TestAuthRedirectsBrowsers(t *testing.T) {
	h := Auth(usersOf())(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != LoginPath {
		t.Fatalf("status = %d, location = %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(models.RoleAdmin)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/attendance", nil)
	req = req.WithContext(WithSession(req.Context(), &Session{Role: models.RoleBankManager}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}

	req = req.WithContext(WithSession(req.Context(), &Session{Role: models.RoleAdmin}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("admin status = %d", rec.Code)
	}
}

func TestRequirePasswordChange(t *testing.T) {
	h := RequirePasswordChange("/api/auth/password")(okHandler)
	session := &Session{Role: models.RoleAdmin, MustChangePassword: true}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/attendance", nil)
	req = req.WithContext(WithSession(req.Context(), session))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/auth/password", nil)
	req = req.WithContext(WithSession(req.Context(), session))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("change password status = %d", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(AccessLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("generated id = %q, header = %q", seen, rec.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("propagated id = %q", seen)
	}
}
