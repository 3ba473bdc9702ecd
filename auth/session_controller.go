package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/go-warehouse-console/internal/errors"
	"github.com/jrsteele09/go-warehouse-console/internal/metrics"
	"github.com/jrsteele09/go-warehouse-console/models"
	"github.com/jrsteele09/go-warehouse-console/routes"
	"github.com/jrsteele09/go-warehouse-console/session"
	"github.com/jrsteele09/go-warehouse-console/token"
	"github.com/jrsteele09/go-warehouse-console/token/jwt"
	"github.com/rs/zerolog/log"
)

// GenericLoginFailure is shown when the backend gives no reason
const GenericLoginFailure = "Login failed"

// Authenticator is the credential side of the backend
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.TokenResponse, error)
	Refresh(ctx context.Context) (models.TokenResponse, error)
	Logout(ctx context.Context) error
}

type Options struct {
	LoginView   string
	DefaultView string
	// Timeout bounds each backend round trip; zero leaves only the caller's context
	Timeout time.Duration
	Metrics *metrics.Metrics
}

// SessionController drives every session transition: it calls the
// Authenticator, applies the result to the token and session stores and
// performs the navigation that follows.
type SessionController struct {
	client   Authenticator
	tokens   *token.Store
	sessions *session.Store
	nav      routes.Navigator
	opts     Options
}

func NewSessionController(client Authenticator, tokens *token.Store, sessions *session.Store, nav routes.Navigator, opts Options) *SessionController {
	if opts.LoginView == "" {
		opts.LoginView = routes.RouteLogin
	}
	if opts.DefaultView == "" {
		opts.DefaultView = routes.RouteDashboard
	}
	return &SessionController{
		client:   client,
		tokens:   tokens,
		sessions: sessions,
		nav:      nav,
		opts:     opts,
	}
}

// Login signs in with email and password. On failure the session moves to
// Failed with the backend's message (or GenericLoginFailure) and the error
// is returned unchanged in kind.
func (c *SessionController) Login(ctx context.Context, email, password string) error {
	c.tokens.Clear()
	c.sessions.LoginStarted()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Login(ctx, email, password)
	if err != nil {
		return c.loginFailed(email, err)
	}

	claims, err := c.establish(resp.AccessToken)
	if err != nil {
		return c.loginFailed(email, err)
	}

	c.opts.Metrics.Login(metrics.OutcomeSuccess)
	log.Info().Str("user", claims.Subject).Str("role", string(claims.Role)).Msg("login succeeded")
	c.nav.Navigate(c.opts.DefaultView)
	return nil
}

func (c *SessionController) loginFailed(email string, err error) error {
	message := errors.MessageOf(err)
	if message == "" {
		message = GenericLoginFailure
	}
	c.sessions.LoginFailed(message)

	outcome := metrics.OutcomeError
	switch {
	case errors.Is(err, errors.ErrAuthRejected):
		outcome = metrics.OutcomeRejected
	case errors.Is(err, errors.ErrMalformedCredential):
		outcome = metrics.OutcomeMalformed
	case errors.Is(err, errors.ErrTransport):
		outcome = metrics.OutcomeTransport
	}
	c.opts.Metrics.Login(outcome)
	log.Warn().Err(err).Str("user", email).Str("outcome", outcome).Msg("login failed")
	return err
}

// Logout ends the session. The backend is asked to revoke the refresh
// cookie first; the local credential is dropped whatever it answers, and
// any backend error is returned after the local clear. Logging out an
// anonymous session does nothing.
func (c *SessionController) Logout(ctx context.Context) error {
	state := c.sessions.Snapshot()
	if !state.Authenticated() && !state.Loading {
		return nil
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	err := c.client.Logout(ctx)

	c.tokens.Clear()
	c.sessions.Reset()
	c.nav.Navigate(c.opts.LoginView)

	if err != nil {
		c.opts.Metrics.Logout(metrics.OutcomeLocalOnly)
		log.Warn().Err(err).Str("user", state.User).Msg("logout not confirmed by backend, cleared locally")
		return errors.Wrapf(err, "logout")
	}
	c.opts.Metrics.Logout(metrics.OutcomeSuccess)
	log.Info().Str("user", state.User).Msg("logged out")
	return nil
}

// ForceLogout de-authenticates locally without calling the backend.
// It is used when the backend has already rejected the session.
func (c *SessionController) ForceLogout() {
	_, hadToken := c.tokens.Get()
	c.tokens.Clear()
	changed := c.sessions.Reset()
	if !hadToken && !changed {
		return
	}
	c.opts.Metrics.Logout(metrics.OutcomeForced)
	log.Info().Msg("session ended by backend")
	c.nav.Navigate(c.opts.LoginView)
}

// RefreshSession exchanges the refresh cookie for a new access token and
// returns it. Any failure forces a local logout and yields an error
// matching errors.ErrRefreshRejected.
func (c *SessionController) RefreshSession(ctx context.Context) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Refresh(ctx)
	if err == nil {
		if _, err = c.establish(resp.AccessToken); err == nil {
			c.opts.Metrics.Refresh(metrics.OutcomeSuccess)
			log.Debug().Msg("access token refreshed")
			return resp.AccessToken, nil
		}
	}

	outcome := metrics.OutcomeRejected
	if errors.Is(err, errors.ErrTransport) {
		outcome = metrics.OutcomeTransport
	} else if errors.Is(err, errors.ErrMalformedCredential) {
		outcome = metrics.OutcomeMalformed
	}
	c.opts.Metrics.Refresh(outcome)
	log.Warn().Err(err).Msg("token refresh failed")
	c.ForceLogout()

	if errors.Is(err, errors.ErrRefreshRejected) {
		return "", err
	}
	return "", fmt.Errorf("%w: %w", errors.ErrRefreshRejected, err)
}

// Resume re-establishes a session after a restart using only the refresh
// cookie. A failure leaves the session anonymous.
func (c *SessionController) Resume(ctx context.Context) error {
	if c.sessions.Snapshot().Authenticated() {
		return nil
	}
	c.tokens.Clear()
	c.sessions.LoginStarted()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Refresh(ctx)
	if err == nil {
		var claims jwt.Claims
		if claims, err = c.establish(resp.AccessToken); err == nil {
			log.Info().Str("user", claims.Subject).Msg("session resumed")
			c.nav.Navigate(c.opts.DefaultView)
			return nil
		}
	}

	c.tokens.Clear()
	c.sessions.Reset()
	log.Debug().Err(err).Msg("no session to resume")
	return errors.Wrapf(err, "resume")
}

// Session returns the current session snapshot
func (c *SessionController) Session() session.State {
	return c.sessions.Snapshot()
}

// establish decodes rawToken and installs it in both stores
func (c *SessionController) establish(rawToken string) (jwt.Claims, error) {
	claims, err := jwt.Decode(rawToken)
	if err != nil {
		return jwt.Claims{}, err
	}
	c.tokens.SetWithExpiry(rawToken, claims.Expiry)
	if c.sessions.TokenRefreshed(claims.Subject, claims.Role, rawToken) {
		return claims, nil
	}
	if err := c.sessions.LoginSucceeded(claims.Subject, claims.Role, rawToken); err != nil {
		c.tokens.Clear()
		return jwt.Claims{}, fmt.Errorf("%w: %w", errors.ErrMalformedCredential, err)
	}
	return claims, nil
}

func (c *SessionController) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.opts.Timeout)
}
