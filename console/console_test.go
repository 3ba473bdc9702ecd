package console_test

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/go-warehouse-console/console"
	"github.com/jrsteele09/go-warehouse-console/internal/backendfake"
	"github.com/jrsteele09/go-warehouse-console/internal/config"
	"github.com/jrsteele09/go-warehouse-console/internal/errors"
	"github.com/jrsteele09/go-warehouse-console/routes"
	"github.com/jrsteele09/go-warehouse-console/session"
	"github.com/jrsteele09/go-warehouse-console/session/redisbus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func newConsole(t *testing.T, yaml string) (*console.Console, *backendfake.Backend) {
	t.Helper()
	backend := backendfake.New(t)
	c, err := config.Parse([]byte(fmt.Sprintf("base_url: %s/\n%s", backend.URL(), yaml)))
	require.NoError(t, err)

	con, err := console.New(context.Background(), c, console.WithRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, con.Close()) })
	return con, backend
}

func TestLoginThenOpenViews(t *testing.T) {
	con, _ := newConsole(t, "")
	ctx := context.Background()

	require.True(t, errors.Is(con.Open(routes.RouteWarehouses), errors.ErrNotAuthenticated))
	require.Equal(t, routes.RouteLogin, con.History.Current())

	require.NoError(t, con.Auth.Login(ctx, "manager@wms.test", "manager-pass"))
	require.Equal(t, routes.RouteDashboard, con.History.Current())

	require.NoError(t, con.Open(routes.RouteWarehouses))
	require.Equal(t, routes.RouteWarehouses, con.History.Current())

	err := con.Open(routes.RouteAdminUsers)
	require.True(t, errors.Is(err, errors.ErrForbidden))
	require.Equal(t, routes.RouteDashboard, con.History.Current())

	_, err = con.API.ListWarehouses(ctx)
	require.NoError(t, err)

	require.NoError(t, con.Auth.Logout(ctx))
	require.Equal(t, routes.RouteLogin, con.History.Current())
	require.Nil(t, con.Bus)
}

func TestConfiguredViews(t *testing.T) {
	con, _ := newConsole(t, "views:\n  default: /orders\n")

	require.NoError(t, con.Auth.Login(context.Background(), "staff@wms.test", "staff-pass"))
	require.Equal(t, routes.RouteOrders, con.History.Current())
}

func TestSessionEventsReachOtherConsoles(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	con, _ := newConsole(t, fmt.Sprintf("redis:\n  address: %s\n  channel: test-sessions\n", mr.Addr()))
	require.NotNil(t, con.Bus)

	watcher, _ := newConsole(t, fmt.Sprintf("redis:\n  address: %s\n  channel: test-sessions\n", mr.Addr()))

	var mu sync.Mutex
	var phases []session.Phase
	stop, err := watcher.Bus.Listen(context.Background(), func(ev redisbus.Event) {
		mu.Lock()
		defer mu.Unlock()
		phases = append(phases, ev.Phase)
	})
	require.NoError(t, err)
	defer stop()

	require.NoError(t, con.Auth.Login(context.Background(), "admin@wms.test", "admin-pass"))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(phases) > 0 && phases[len(phases)-1] == session.PhaseAuthenticated
	}, time.Second, 10*time.Millisecond)
}

func TestUnreachableRedisFailsFast(t *testing.T) {
	c, err := config.Parse([]byte("redis:\n  address: 127.0.0.1:1\n"))
	require.NoError(t, err)

	_, err = console.New(context.Background(), c, console.WithRegistry(prometheus.NewRegistry()))
	require.Error(t, err)
}

func TestConfigureLogging(t *testing.T) {
	defer func(level zerolog.Level, logger zerolog.Logger) {
		zerolog.SetGlobalLevel(level)
		log.Logger = logger
	}(zerolog.GlobalLevel(), log.Logger)

	var buf bytes.Buffer
	require.NoError(t, console.ConfigureLogging("WARN", "PROD", &buf))
	require.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"message":"shown"`)

	require.Error(t, console.ConfigureLogging("loud", "DEV", &buf))
}
