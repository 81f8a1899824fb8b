package auth

import (
	"net/http"
	"strings"

	"github.com/raushankrgupta/phoneswap-server/models"
	"github.com/raushankrgupta/phoneswap-server/utils"
	"go.uber.org/zap"
)

const (
	msgUnauthorized = "Unauthorized Access"
	msgForbidden    = "Forbidden Access"
)

// RoleDeniedMessage is the 403 message for a failed role check, e.g. "Admin Access Only".
func RoleDeniedMessage(role models.Role) string {
	return role.Title() + " Access Only"
}

// Guard composes the access control stages in front of handlers.
type Guard struct {
	tokens *TokenService
	users  UserLookup
	logger *zap.Logger
}

func NewGuard(tokens *TokenService, users UserLookup, logger *zap.Logger) *Guard {
	return &Guard{tokens: tokens, users: users, logger: logger}
}

// Authenticate requires a valid bearer token and puts its email in the request context.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		scheme, token, _ := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if header == "" || !strings.EqualFold(scheme, "Bearer") || token == "" {
			utils.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		email, err := g.tokens.Verify(token)
		if err != nil {
			utils.RespondError(w, http.StatusForbidden, msgForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithEmail(r.Context(), email)))
	})
}

// Authorize loads the caller's current record and requires role. It must run
// after Authenticate.
func (g *Guard) Authorize(role models.Role) func(http.Handler) http.Handler {
	denied := RoleDeniedMessage(role)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := EmailFromContext(r.Context())
			if !ok {
				utils.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}

			user, err := g.users.FindByEmail(r.Context(), email)
			if err != nil || !user.HasRole(role) {
				if err != nil {
					g.logger.Warn("role lookup failed", zap.String("email", email), zap.String("role", string(role)), zap.Error(err))
				}
				utils.RespondError(w, http.StatusForbidden, denied)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireSelf rejects requests whose path email differs from the authenticated one.
func (g *Guard) RequireSelf(extract func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := EmailFromContext(r.Context())
			if !ok || extract(r) != email {
				utils.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SelfOrRole lets the owner of the path email through, or any caller whose
// current role is role.
func (g *Guard) SelfOrRole(extract func(*http.Request) string, role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := EmailFromContext(r.Context())
			if !ok {
				utils.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}
			if extract(r) == email {
				next.ServeHTTP(w, r)
				return
			}

			user, err := g.users.FindByEmail(r.Context(), email)
			if err != nil || !user.HasRole(role) {
				utils.RespondError(w, http.StatusForbidden, msgForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
