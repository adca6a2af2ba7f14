package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/apperrors"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/models"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/response"
)

type contextKey string

const SessionContextKey contextKey = "session"

// TokenCookie carries the JWT for browser clients.
const TokenCookie = "token"

// Session is the signed-in identity handed to every handler through the
// request context.
type Session struct {
	UserID             uint        `json:"userId"`
	EmployeeID         string      `json:"employeeId,omitempty"`
	Username           string      `json:"username"`
	FullName           string      `json:"fullName"`
	Role               models.Role `json:"role"`
	MustChangePassword bool        `json:"mustChangePassword"`
}

func NewSession(u *models.User) *Session {
	return &Session{
		UserID:             u.ID,
		EmployeeID:         u.EmployeeID,
		Username:           u.Username,
		FullName:           u.DisplayName(),
		Role:               u.Role,
		MustChangePassword: u.MustChangePassword,
	}
}

// User is the subset of the user row the session carries, enough for the
// models.User capability checks.
func (s *Session) User() *models.User {
	return &models.User{
		ID:                 s.UserID,
		EmployeeID:         s.EmployeeID,
		Username:           s.Username,
		FullName:           s.FullName,
		Role:               s.Role,
		Active:             true,
		MustChangePassword: s.MustChangePassword,
	}
}

type Claims struct {
	UserID     uint        `json:"user_id"`
	EmployeeID string      `json:"employee_id,omitempty"`
	Username   string      `json:"username"`
	Role       models.Role `json:"role"`
	jwt.RegisteredClaims
}

var jwtSecret []byte

func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

func GenerateToken(user *models.User, expiration time.Duration) (string, error) {
	claims := &Claims{
		UserID:     user.ID,
		EmployeeID: user.EmployeeID,
		Username:   user.Username,
		Role:       user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

// UserFinder loads the current state of a user named by a token.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// Auth resolves the token on each request into a Session. The user row is
// reloaded so role changes and deactivation apply before the token expires.
func Auth(users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				deny(w, r, Guard(nil))
				return
			}

			claims, err := ValidateToken(tokenString)
			if err != nil {
				ClearTokenCookie(w)
				deny(w, r, Guard(nil))
				return
			}

			user, err := users.FindByID(r.Context(), claims.UserID)
			if err != nil || !user.Active {
				ClearTokenCookie(w)
				deny(w, r, Guard(nil))
				return
			}

			ctx := WithSession(r.Context(), NewSession(user))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return ""
}

func SetTokenCookie(w http.ResponseWriter, token string, expiration time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(expiration.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// RequirePasswordChange blocks everything except the password change route
// until a seeded or reset password has been replaced.
func RequirePasswordChange(changePath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := SessionFromContext(r.Context())
			if session != nil && session.MustChangePassword && r.URL.Path != changePath {
				response.Error(w, r, apperrors.PasswordChange)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := Guard(SessionFromContext(r.Context()), roles...)
			if decision != Allow {
				deny(w, r, decision)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, decision Decision) {
	switch decision {
	case RedirectToLogin:
		if wantsHTML(r) {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		response.Error(w, r, apperrors.Unauthorized)
	default:
		response.Error(w, r, apperrors.Forbidden)
	}
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, SessionContextKey, s)
}

func SessionFromContext(ctx context.Context) *Session {
	session, ok := ctx.Value(SessionContextKey).(*Session)
	if !ok {
		return nil
	}
	return session
}
