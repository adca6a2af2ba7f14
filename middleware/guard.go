package middleware

import "github.com/Babu-advocates/justforrfunj-79973-sub001/models"

// LoginPath is where unauthenticated browser requests are sent.
const LoginPath = "/login"

type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	Deny
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect"
	default:
		return "deny"
	}
}

// Guard decides access for a session. No session redirects to login; with no
// roles listed any signed-in user is allowed.
func Guard(s *Session, roles ...models.Role) Decision {
	if s == nil {
		return RedirectToLogin
	}
	if len(roles) == 0 {
		return Allow
	}
	for _, role := range roles {
		if s.Role == role {
			return Allow
		}
	}
	return Deny
}
