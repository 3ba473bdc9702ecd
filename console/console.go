package console

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/go-warehouse-console/api"
	"github.com/jrsteele09/go-warehouse-console/auth"
	"github.com/jrsteele09/go-warehouse-console/authclient"
	"github.com/jrsteele09/go-warehouse-console/internal/config"
	"github.com/jrsteele09/go-warehouse-console/internal/metrics"
	"github.com/jrsteele09/go-warehouse-console/routes"
	"github.com/jrsteele09/go-warehouse-console/session"
	"github.com/jrsteele09/go-warehouse-console/session/redisbus"
	"github.com/jrsteele09/go-warehouse-console/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisPingTimeout = 3 * time.Second

// Console owns one signed-in (or anonymous) session and everything that
// acts on it. Build it with New and release it with Close.
type Console struct {
	Config   config.Config
	Tokens   *token.Store
	Sessions *session.Store
	History  *routes.History
	Router   *routes.Router
	Metrics  *metrics.Metrics
	Auth     *auth.SessionController
	API      *api.Client

	// Bus is nil unless a Redis address is configured
	Bus *redisbus.Bus

	redis  *redis.Client
	detach func()
}

type options struct {
	registry prometheus.Registerer
}

type Option func(*options)

// WithRegistry registers the console metrics on registry instead of the default one
func WithRegistry(registry prometheus.Registerer) Option {
	return func(o *options) {
		o.registry = registry
	}
}

func New(ctx context.Context, c config.Config, opts ...Option) (*Console, error) {
	o := options{registry: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(&o)
	}

	m, err := metrics.New(metrics.WithRegistry(o.registry))
	if err != nil {
		return nil, fmt.Errorf("[console New] metrics: %w", err)
	}

	authClient, err := authclient.New(c.GetBaseURL(), authclient.WithTimeout(c.GetAuthTimeout()))
	if err != nil {
		return nil, fmt.Errorf("[console New] auth client: %w", err)
	}

	con := &Console{
		Config:   c,
		Tokens:   token.NewStore(),
		Sessions: session.NewStore(),
		History:  routes.NewHistory(c.GetLoginView()),
		Metrics:  m,
	}
	con.Router = routes.NewRouter(routes.DefaultTable(), con.Sessions, con.History, c.GetLoginView(), c.GetDefaultView())
	con.Auth = auth.NewSessionController(authClient, con.Tokens, con.Sessions, con.History, auth.Options{
		LoginView:   c.GetLoginView(),
		DefaultView: c.GetDefaultView(),
		Timeout:     c.GetAuthTimeout(),
		Metrics:     m,
	})
	transport := api.NewTransport(con.Tokens, con.Auth, api.WithMetrics(m))
	con.API = api.NewClient(c.GetBaseURL(), transport, c.GetRequestTimeout())

	if addr := c.GetRedisAddr(); addr != "" {
		if err := con.connectBus(ctx, addr, c.GetRedisChannel()); err != nil {
			return nil, err
		}
	}

	log.Debug().Str("env", c.GetEnv()).Str("backend", c.GetBaseURL()).Bool("bus", con.Bus != nil).Msg("console ready")
	return con, nil
}

func (c *Console) connectBus(ctx context.Context, addr, channel string) error {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("[console New] redis %s: %w", addr, err)
	}

	c.redis = rdb
	c.Bus = redisbus.New(rdb, channel)
	c.detach = c.Bus.Attach(c.Sessions)
	return nil
}

// Open enters the view at path, applying its session and role gates
func (c *Console) Open(path string) error {
	if err := c.Router.Enter(path); err != nil {
		return fmt.Errorf("[console Open] %s: %w", path, err)
	}
	return nil
}

// Close stops publishing session events and releases the Redis connection
func (c *Console) Close() error {
	if c.detach != nil {
		c.detach()
	}
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
