package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jrsteele09/go-warehouse-console/auth"
	"github.com/jrsteele09/go-warehouse-console/authclient"
	"github.com/jrsteele09/go-warehouse-console/internal/backendfake"
	"github.com/jrsteele09/go-warehouse-console/internal/errors"
	"github.com/jrsteele09/go-warehouse-console/internal/metrics"
	"github.com/jrsteele09/go-warehouse-console/models"
	"github.com/jrsteele09/go-warehouse-console/routes"
	"github.com/jrsteele09/go-warehouse-console/session"
	"github.com/jrsteele09/go-warehouse-console/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// stubAuthenticator returns canned results and counts calls
type stubAuthenticator struct {
	loginResp   models.TokenResponse
	loginErr    error
	refreshResp models.TokenResponse
	refreshErr  error
	logoutErr   error

	logins, refreshes, logouts int
}

func (s *stubAuthenticator) Login(ctx context.Context, email, password string) (models.TokenResponse, error) {
	s.logins++
	return s.loginResp, s.loginErr
}

func (s *stubAuthenticator) Refresh(ctx context.Context) (models.TokenResponse, error) {
	s.refreshes++
	return s.refreshResp, s.refreshErr
}

func (s *stubAuthenticator) Logout(ctx context.Context) error {
	s.logouts++
	return s.logoutErr
}

type testFixture struct {
	tokens     *token.Store
	sessions   *session.Store
	history    *routes.History
	metrics    *metrics.Metrics
	controller *auth.SessionController
	states     []session.State
}

func setupTestFixture(t *testing.T, client auth.Authenticator) *testFixture {
	t.Helper()
	m, err := metrics.New(metrics.WithRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)

	f := &testFixture{
		tokens:   token.NewStore(),
		sessions: session.NewStore(),
		history:  routes.NewHistory(routes.RouteLogin),
		metrics:  m,
	}
	f.controller = auth.NewSessionController(client, f.tokens, f.sessions, f.history, auth.Options{
		Timeout: 2 * time.Second,
		Metrics: m,
	})
	unsubscribe := f.sessions.Subscribe(func(s session.State) {
		require.True(t, s.Consistent(), "inconsistent state %+v", s)
		f.states = append(f.states, s)
	})
	t.Cleanup(unsubscribe)
	return f
}

func mint(t *testing.T, subject string, role models.Role) string {
	t.Helper()
	raw, err := backendfake.MintToken(subject, role, time.Now().Add(15*time.Minute))
	require.NoError(t, err)
	return raw
}

func realClient(t *testing.T, backend *backendfake.Backend) *authclient.Client {
	t.Helper()
	c, err := authclient.New(backend.URL())
	require.NoError(t, err)
	return c
}

func TestLoginSuccess(t *testing.T) {
	tok := mint(t, "a@b.com", models.RoleAdmin)
	f := setupTestFixture(t, &stubAuthenticator{loginResp: models.TokenResponse{AccessToken: tok}})

	require.NoError(t, f.controller.Login(context.Background(), "a@b.com", "x"))

	require.Equal(t, session.State{User: "a@b.com", Role: models.RoleAdmin, Token: tok}, f.sessions.Snapshot())
	stored, ok := f.tokens.Get()
	require.True(t, ok)
	require.Equal(t, tok, stored)
	require.Equal(t, routes.RouteDashboard, f.history.Current())
	require.Equal(t, 1.0, f.metrics.LoginCount(metrics.OutcomeSuccess))

	require.Equal(t, []session.Phase{
		session.PhaseAnonymous,
		session.PhaseAuthenticating,
		session.PhaseAuthenticated,
	}, phases(f.states))
}

func TestLoginRejectedAgainstBackend(t *testing.T) {
	backend := backendfake.New(t)
	f := setupTestFixture(t, realClient(t, backend))

	err := f.controller.Login(context.Background(), "admin@wms.test", "wrong")
	require.ErrorIs(t, err, errors.ErrAuthRejected)

	require.Equal(t, session.State{Error: "Bad credentials"}, f.sessions.Snapshot())
	_, ok := f.tokens.Get()
	require.False(t, ok)
	require.Equal(t, []string{routes.RouteLogin}, f.history.Visits())
	require.Equal(t, 1.0, f.metrics.LoginCount(metrics.OutcomeRejected))
}

func TestLoginFailureUsesGenericMessage(t *testing.T) {
	f := setupTestFixture(t, &stubAuthenticator{loginErr: errors.Transport(context.DeadlineExceeded)})

	err := f.controller.Login(context.Background(), "a@b.com", "x")
	require.ErrorIs(t, err, errors.ErrTransport)
	require.Equal(t, session.State{Error: auth.GenericLoginFailure}, f.sessions.Snapshot())
	require.Equal(t, 1.0, f.metrics.LoginCount(metrics.OutcomeTransport))
}

func TestLoginWithMalformedToken(t *testing.T) {
	f := setupTestFixture(t, &stubAuthenticator{loginResp: models.TokenResponse{AccessToken: "not.a.jwt"}})

	err := f.controller.Login(context.Background(), "a@b.com", "x")
	require.ErrorIs(t, err, errors.ErrMalformedCredential)
	require.Equal(t, session.State{Error: auth.GenericLoginFailure}, f.sessions.Snapshot())
	_, ok := f.tokens.Get()
	require.False(t, ok)
}

func TestFailedIsNotSticky(t *testing.T) {
	backend := backendfake.New(t)
	f := setupTestFixture(t, realClient(t, backend))
	ctx := context.Background()

	require.Error(t, f.controller.Login(ctx, "staff@wms.test", "wrong"))
	require.NoError(t, f.controller.Login(ctx, "staff@wms.test", "staff-pass"))

	state := f.sessions.Snapshot()
	require.Equal(t, models.RoleStaff, state.Role)
	require.Empty(t, state.Error)
	require.Equal(t, []session.Phase{
		session.PhaseAnonymous,
		session.PhaseAuthenticating,
		session.PhaseFailed,
		session.PhaseAuthenticating,
		session.PhaseAuthenticated,
	}, phases(f.states))
}

func TestLogout(t *testing.T) {
	backend := backendfake.New(t)
	f := setupTestFixture(t, realClient(t, backend))
	ctx := context.Background()

	require.NoError(t, f.controller.Login(ctx, "manager@wms.test", "manager-pass"))
	require.NoError(t, f.controller.Logout(ctx))

	require.Equal(t, session.State{}, f.sessions.Snapshot())
	_, ok := f.tokens.Get()
	require.False(t, ok)
	require.Equal(t, routes.RouteLogin, f.history.Current())
	require.Equal(t, 1, backend.Logouts())
	require.Equal(t, 1.0, f.metrics.LogoutCount(metrics.OutcomeSuccess))
}

func TestLogoutClearsLocallyWhenBackendFails(t *testing.T) {
	stub := &stubAuthenticator{
		loginResp: models.TokenResponse{AccessToken: mint(t, "a@b.com", models.RoleStaff)},
		logoutErr: &errors.APIError{StatusCode: http.StatusBadGateway, Kind: errors.ErrRequestFailed},
	}
	f := setupTestFixture(t, stub)
	ctx := context.Background()

	require.NoError(t, f.controller.Login(ctx, "a@b.com", "x"))
	err := f.controller.Logout(ctx)
	require.ErrorIs(t, err, errors.ErrRequestFailed)

	require.Equal(t, session.State{}, f.sessions.Snapshot())
	_, ok := f.tokens.Get()
	require.False(t, ok)
	require.Equal(t, routes.RouteLogin, f.history.Current())
	require.Equal(t, 1.0, f.metrics.LogoutCount(metrics.OutcomeLocalOnly))
}

func TestLogoutWhenAnonymousIsNoop(t *testing.T) {
	stub := &stubAuthenticator{}
	f := setupTestFixture(t, stub)

	require.NoError(t, f.controller.Logout(context.Background()))
	require.NoError(t, f.controller.Logout(context.Background()))

	require.Equal(t, 0, stub.logouts)
	require.Equal(t, []string{routes.RouteLogin}, f.history.Visits())
	require.Len(t, f.states, 1)
}

func TestRefreshSessionSuccess(t *testing.T) {
	t1 := mint(t, "a@b.com", models.RoleAdmin)
	t2 := mint(t, "a@b.com", models.RoleAdmin)
	stub := &stubAuthenticator{
		loginResp:   models.TokenResponse{AccessToken: t1},
		refreshResp: models.TokenResponse{AccessToken: t2},
	}
	f := setupTestFixture(t, stub)
	ctx := context.Background()
	require.NoError(t, f.controller.Login(ctx, "a@b.com", "x"))

	got, err := f.controller.RefreshSession(ctx)
	require.NoError(t, err)
	require.Equal(t, t2, got)

	stored, _ := f.tokens.Get()
	require.Equal(t, t2, stored)
	require.Equal(t, t2, f.sessions.Snapshot().Token)
	require.Equal(t, routes.RouteDashboard, f.history.Current(), "silent refresh must not navigate")
	require.Equal(t, 1.0, f.metrics.RefreshCount(metrics.OutcomeSuccess))
}

func TestRefreshSessionRejectedForcesLogout(t *testing.T) {
	backend := backendfake.New(t)
	f := setupTestFixture(t, realClient(t, backend))
	ctx := context.Background()

	require.NoError(t, f.controller.Login(ctx, "admin@wms.test", "admin-pass"))
	backend.RevokeRefreshSessions()

	_, err := f.controller.RefreshSession(ctx)
	require.ErrorIs(t, err, errors.ErrRefreshRejected)

	require.Equal(t, session.State{}, f.sessions.Snapshot())
	_, ok := f.tokens.Get()
	require.False(t, ok)
	require.Equal(t, routes.RouteLogin, f.history.Current())
	require.Equal(t, 0, backend.Logouts(), "forced logout must not call the backend")
	require.Equal(t, 1.0, f.metrics.LogoutCount(metrics.OutcomeForced))
}

func TestRefreshSessionTransportFailureIsRefreshRejected(t *testing.T) {
	stub := &stubAuthenticator{
		loginResp:  models.TokenResponse{AccessToken: mint(t, "a@b.com", models.RoleAdmin)},
		refreshErr: errors.Transport(context.DeadlineExceeded),
	}
	f := setupTestFixture(t, stub)
	require.NoError(t, f.controller.Login(context.Background(), "a@b.com", "x"))

	_, err := f.controller.RefreshSession(context.Background())
	require.ErrorIs(t, err, errors.ErrRefreshRejected)
	require.ErrorIs(t, err, errors.ErrTransport)
	require.Equal(t, session.State{}, f.sessions.Snapshot())
}

func TestResume(t *testing.T) {
	backend := backendfake.New(t)
	client := realClient(t, backend)
	ctx := context.Background()

	first := setupTestFixture(t, client)
	require.NoError(t, first.controller.Login(ctx, "staff@wms.test", "staff-pass"))

	// A fresh process shares only the cookie jar with the first one
	second := setupTestFixture(t, client)
	require.NoError(t, second.controller.Resume(ctx))
	state := second.sessions.Snapshot()
	require.Equal(t, "staff@wms.test", state.User)
	require.Equal(t, models.RoleStaff, state.Role)
	require.Equal(t, routes.RouteDashboard, second.history.Current())

	require.NoError(t, second.controller.Resume(ctx), "resume on an authenticated session is a no-op")
	require.Equal(t, 1, backend.Refreshes())
}

func TestResumeWithoutCookie(t *testing.T) {
	backend := backendfake.New(t)
	f := setupTestFixture(t, realClient(t, backend))

	err := f.controller.Resume(context.Background())
	require.ErrorIs(t, err, errors.ErrRefreshRejected)
	require.Equal(t, session.State{}, f.sessions.Snapshot())
	require.Equal(t, []string{routes.RouteLogin}, f.history.Visits())
}

func TestForceLogoutWhenAnonymousIsNoop(t *testing.T) {
	f := setupTestFixture(t, &stubAuthenticator{})
	f.controller.ForceLogout()
	require.Equal(t, []string{routes.RouteLogin}, f.history.Visits())
	require.Zero(t, f.metrics.LogoutCount(metrics.OutcomeForced))
}

func phases(states []session.State) []session.Phase {
	out := make([]session.Phase, 0, len(states))
	for _, s := range states {
		out = append(out, s.Phase())
	}
	return out
}
