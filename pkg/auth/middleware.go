package auth

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "safari/pkg/errors"
	httputil "safari/pkg/http"
	"safari/pkg/logger"
	"safari/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type Gate struct {
	secret []byte
	log    *logger.Logger
}

func NewGate(secret string, log *logger.Logger) *Gate {
	return &Gate{
		secret: []byte(secret),
		log:    log,
	}
}

// Authenticate resolves the bearer token into a principal stored on the
// request context.
func (g *Gate) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		principal, err := ParseToken(g.secret, bearerToken(r))
		if err != nil {
			g.log.Warn("Authentication failed",
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)
			httputil.WriteError(w, apperrors.Unauthorized("Not authorized, token failed"))
			return
		}
		next(w, r.WithContext(WithPrincipal(r.Context(), principal)), ps)
	}
}

// RequireRole rejects principals whose role is not one of roles. It must run
// after Authenticate.
func (g *Gate) RequireRole(next httprouter.Handle, roles ...model.Role) httprouter.Handle {
	message := deniedMessage(roles)
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		principal, ok := PrincipalFrom(r.Context())
		if !ok {
			httputil.WriteError(w, apperrors.Unauthorized("Not authorized, no token"))
			return
		}
		for _, role := range roles {
			if principal.Role == role {
				next(w, r, ps)
				return
			}
		}
		g.log.Warn("Access denied",
			"user_id", principal.ID,
			"role", principal.Role,
			"path", r.URL.Path,
		)
		httputil.WriteError(w, apperrors.Forbidden(message))
	}
}

// Require is Authenticate followed by RequireRole. With no roles any
// authenticated principal passes.
func (g *Gate) Require(roles ...model.Role) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		if len(roles) == 0 {
			return g.Authenticate(next)
		}
		return g.Authenticate(g.RequireRole(next, roles...))
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func deniedMessage(roles []model.Role) string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		name := string(role)
		if name != "" {
			name = strings.ToUpper(name[:1]) + name[1:]
		}
		names = append(names, name)
	}
	return fmt.Sprintf("Access denied. %s role required.", strings.Join(names, " or "))
}
