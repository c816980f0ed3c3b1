package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/anonto42/petconnect/backend/internal/apperrors"
	"github.com/anonto42/petconnect/backend/internal/auth"
	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	principalKey  = "principal"
	resolutionKey = "principal_resolution"
)

var (
	errMissingToken    = apperrors.New(apperrors.Unauthorized, "missing authorization token")
	errInvalidToken    = apperrors.New(apperrors.Unauthorized, "invalid or expired token")
	errAccountDisabled = apperrors.New(apperrors.Unauthorized, "account not found or inactive")
)

// AccountLookup loads the account a token refers to.
type AccountLookup interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// SessionResolver turns a bearer token into a Principal at most once per request.
type SessionResolver struct {
	tokens   *auth.TokenManager
	accounts AccountLookup
}

func NewSessionResolver(tokens *auth.TokenManager, accounts AccountLookup) *SessionResolver {
	return &SessionResolver{tokens: tokens, accounts: accounts}
}

type resolution struct {
	principal models.Principal
	ok        bool
	// reason is why no principal was attached; internal errors are never recovered.
	reason error
}

func (r *SessionResolver) resolve(c echo.Context) *resolution {
	if res, ok := c.Get(resolutionKey).(*resolution); ok {
		return res
	}
	res := r.lookup(c)
	c.Set(resolutionKey, res)
	if res.ok {
		c.Set(principalKey, res.principal)
	}
	return res
}

func (r *SessionResolver) lookup(c echo.Context) *resolution {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.TrimSpace(header) == "" {
		return &resolution{reason: errMissingToken}
	}
	token := bearerToken(header)
	if token == "" {
		return &resolution{reason: errInvalidToken}
	}

	claims, err := r.tokens.Parse(token)
	if err != nil {
		return &resolution{reason: errInvalidToken}
	}
	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return &resolution{reason: errInvalidToken}
	}

	user, err := r.accounts.GetUserByID(c.Request().Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		return &resolution{reason: errAccountDisabled}
	}
	if err != nil {
		return &resolution{reason: apperrors.Wrap(apperrors.Internal, "could not resolve session", err)}
	}
	if !user.IsActive {
		return &resolution{reason: errAccountDisabled}
	}

	return &resolution{
		ok:        true,
		principal: models.Principal{UserID: user.ID, Email: user.Email, Role: user.Role},
	}
}

// Required rejects the request unless an active account's valid token is present.
func (r *SessionResolver) Required() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := r.resolve(c)
			if !res.ok {
				return res.reason
			}
			return next(c)
		}
	}
}

// Optional attaches a principal when one resolves and otherwise lets the
// request through anonymously. Token problems are never reported.
func (r *SessionResolver) Optional() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := r.resolve(c)
			if !res.ok && apperrors.KindOf(res.reason) == apperrors.Internal {
				return res.reason
			}
			return next(c)
		}
	}
}

// RequireRole must run after Required or Optional.
func RequireRole(role models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := CurrentPrincipal(c)
			if !ok {
				return errMissingToken
			}
			if p.Role != role {
				return apperrors.Forbiddenf("this action requires the %s role", role)
			}
			return next(c)
		}
	}
}

// CurrentPrincipal returns the principal resolved for this request, if any.
func CurrentPrincipal(c echo.Context) (models.Principal, bool) {
	p, ok := c.Get(principalKey).(models.Principal)
	return p, ok
}

// Viewer is CurrentPrincipal as a nillable pointer, for optional endpoints.
func Viewer(c echo.Context) *models.Principal {
	if p, ok := CurrentPrincipal(c); ok {
		return &p
	}
	return nil
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
