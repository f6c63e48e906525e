package application

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/camdenr/trackhub/internal/domain/model"
	"github.com/camdenr/trackhub/internal/domain/port/driven"
)

// Machine-readable authentication failure codes, stable across releases.
const (
	AuthCodeMissingToken         = "missing_token"
	AuthCodeInvalidToken         = "invalid_token"
	AuthCodeTokenExpired         = "token_expired"
	AuthCodeInstallationInactive = "installation_inactive"
	AuthCodeAppInactive          = "app_inactive"
	AuthCodeInsufficientScope    = "insufficient_scope"
	AuthCodeServerError          = "server_error"
)

// AuthError is a structured authentication failure with a stable code, a
// human-readable description, and the HTTP status the transport should emit.
type AuthError struct {
	Code        string
	Description string
	Status      int
}

func (e *AuthError) Error() string {
	return e.Code + ": " + e.Description
}

// AuthContext is the identity attached to a request after a successful
// token check.
type AuthContext struct {
	Installation model.AppInstallation
	App          model.App
	User         model.User
	WorkspaceID  int64
	Token        string
}

// AuthOptions tunes a single Authenticate call.
type AuthOptions struct {
	// RequiredScopes must all be granted to the installation.
	RequiredScopes []string
	// AllowExpired admits tokens past their expiry; used by endpoints that
	// exist to refresh or revoke a dying installation.
	AllowExpired bool
}

// AuthService authenticates third-party app requests by bearer token.
// Checks run in a fixed order so a caller always gets the most specific
// failure: token presence, token match, expiry, installation status, app
// status, then scopes.
type AuthService struct {
	installations driven.InstallationStore
	apps          driven.AppStore
	users         driven.UserStore
	now           func() time.Time
}

// NewAuthService creates an AuthService backed by the given stores.
func NewAuthService(installations driven.InstallationStore, apps driven.AppStore, users driven.UserStore) *AuthService {
	return &AuthService{
		installations: installations,
		apps:          apps,
		users:         users,
		now:           time.Now,
	}
}

// Authenticate resolves a bearer token to an installation and validates the
// full chain of trust behind it. On failure the returned AuthError carries
// the code and HTTP status; internal faults are logged server-side and
// surfaced only as a generic server_error.
func (s *AuthService) Authenticate(ctx context.Context, token string, opts AuthOptions) (*AuthContext, *AuthError) {
	if token == "" {
		return nil, &AuthError{
			Code:        AuthCodeMissingToken,
			Description: "authorization token is required",
			Status:      http.StatusUnauthorized,
		}
	}

	inst, user, err := s.resolveToken(ctx, token)
	if err != nil {
		slog.Error("token resolution failed", "error", err)
		return nil, serverError()
	}
	if inst == nil {
		return nil, &AuthError{
			Code:        AuthCodeInvalidToken,
			Description: "access token does not match any installation",
			Status:      http.StatusUnauthorized,
		}
	}

	if inst.TokenExpired(s.now()) && !opts.AllowExpired {
		return nil, &AuthError{
			Code:        AuthCodeTokenExpired,
			Description: "access token has expired",
			Status:      http.StatusUnauthorized,
		}
	}

	if inst.Status != model.InstallationStatusActive {
		return nil, &AuthError{
			Code:        AuthCodeInstallationInactive,
			Description: "installation is " + string(inst.Status),
			Status:      http.StatusForbidden,
		}
	}

	app, err := s.apps.GetByID(ctx, inst.AppID)
	if err != nil {
		slog.Error("app lookup failed", "app", inst.AppID, "error", err)
		return nil, serverError()
	}
	if app == nil || app.Status != model.AppStatusPublished {
		return nil, &AuthError{
			Code:        AuthCodeAppInactive,
			Description: "app is not published",
			Status:      http.StatusForbidden,
		}
	}

	if missing := MissingScopes(inst.Scopes, opts.RequiredScopes); len(missing) > 0 {
		return nil, &AuthError{
			Code:        AuthCodeInsufficientScope,
			Description: "missing required scopes: " + strings.Join(missing, ", "),
			Status:      http.StatusForbidden,
		}
	}

	return &AuthContext{
		Installation: *inst,
		App:          *app,
		User:         *user,
		WorkspaceID:  inst.WorkspaceID,
		Token:        token,
	}, nil
}

// resolveToken scans active installations for a token match. Tokens are
// random opaque strings, so a linear constant-time comparison per row avoids
// both timing leaks and a plaintext token index. Installations whose
// authorizing user no longer exists are skipped.
func (s *AuthService) resolveToken(ctx context.Context, token string) (*model.AppInstallation, *model.User, error) {
	insts, err := s.installations.ListActiveWithToken(ctx)
	if err != nil {
		return nil, nil, err
	}

	for _, inst := range insts {
		if subtle.ConstantTimeCompare([]byte(inst.AccessToken), []byte(token)) != 1 {
			continue
		}

		user, err := s.users.GetByID(ctx, inst.UserID)
		if err != nil {
			return nil, nil, err
		}
		if user == nil {
			slog.Warn("installation has no resolvable user, skipping", "installation", inst.ID)
			continue
		}

		return &inst, user, nil
	}

	return nil, nil, nil
}

func serverError() *AuthError {
	return &AuthError{
		Code:        AuthCodeServerError,
		Description: "authentication could not be completed",
		Status:      http.StatusInternalServerError,
	}
}
