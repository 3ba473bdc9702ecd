package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/jrsteele09/go-warehouse-console/internal/errors"
	"github.com/jrsteele09/go-warehouse-console/internal/metrics"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	tracerName = "github.com/jrsteele09/go-warehouse-console/api"
	refreshKey = "refresh"
)

// Credentials supplies the current access credential, nil when signed out
type Credentials interface {
	Token() *oauth2.Token
}

// Refresher obtains a new access credential. It is expected to end the
// session itself when the refresh is rejected.
type Refresher interface {
	RefreshSession(ctx context.Context) (string, error)
}

// Transport attaches the bearer credential to every request. When the
// backend answers 401 it refreshes the credential once, shared by every
// request that failed at the same time, and replays the request a single
// time with the new credential.
type Transport struct {
	base      http.RoundTripper
	creds     Credentials
	refresher Refresher
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	refreshes singleflight.Group
}

type TransportOption func(*Transport)

func WithBase(base http.RoundTripper) TransportOption {
	return func(t *Transport) {
		t.base = base
	}
}

func WithMetrics(m *metrics.Metrics) TransportOption {
	return func(t *Transport) {
		t.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) TransportOption {
	return func(t *Transport) {
		t.tracer = tracer
	}
}

func NewTransport(creds Credentials, refresher Refresher, opts ...TransportOption) *Transport {
	t := &Transport{
		base:      http.DefaultTransport,
		creds:     creds,
		refresher: refresher,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	ctx, span := t.tracer.Start(req.Context(), "HTTP "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.route", req.URL.Path),
		),
	)
	defer span.End()

	resp, err := t.roundTrip(ctx, req, span)

	status := 0
	if resp != nil {
		status = resp.StatusCode
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else if status >= 400 {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
	t.metrics.APIRequest(req.Method, status, time.Since(start))
	return resp, err
}

func (t *Transport) roundTrip(ctx context.Context, req *http.Request, span trace.Span) (*http.Response, error) {
	body, err := replayableBody(req)
	if err != nil {
		return nil, err
	}

	sent := t.creds.Token()
	first, err := prepare(ctx, req, sent, body)
	if err != nil {
		return nil, err
	}
	resp, err := t.base.RoundTrip(first)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	fresh, err := t.refresh(ctx, sent)
	if err != nil {
		return nil, err
	}

	replay, err := prepare(ctx, req, fresh, body)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Bool("http.replayed", true))
	t.metrics.Replay()
	log.Debug().Str("method", req.Method).Str("path", req.URL.Path).Msg("replaying request with refreshed token")
	return t.base.RoundTrip(replay)
}

// refresh returns a credential newer than sent. Concurrent callers share one
// refresh; a caller whose credential was already superseded gets the
// current one without another round trip.
func (t *Transport) refresh(ctx context.Context, sent *oauth2.Token) (*oauth2.Token, error) {
	sentRaw := ""
	if sent != nil {
		sentRaw = sent.AccessToken
	}

	// led is only written by the caller whose function singleflight runs
	led := false
	ch := t.refreshes.DoChan(refreshKey, func() (any, error) {
		led = true
		current := t.creds.Token()
		switch {
		case current != nil && current.AccessToken != sentRaw:
			return current, nil
		case current == nil && sentRaw != "":
			return nil, errors.Wrapf(errors.ErrRefreshRejected, "session ended while the request was in flight")
		}
		// The refresh outlives any single caller that gives up waiting
		raw, err := t.refresher.RefreshSession(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		return &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared && !led {
			t.metrics.Refresh(metrics.OutcomeShared)
		}
		return res.Val.(*oauth2.Token), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// replayableBody returns a factory producing a fresh copy of req's body for
// each attempt, or nil when the request has no body.
func replayableBody(req *http.Request) (func() (io.ReadCloser, error), error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	if req.GetBody != nil {
		req.Body.Close()
		return req.GetBody, nil
	}
	data, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return nil, errors.Wrapf(err, "buffer request body")
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}, nil
}

func prepare(ctx context.Context, req *http.Request, tok *oauth2.Token, body func() (io.ReadCloser, error)) (*http.Request, error) {
	out := req.Clone(ctx)
	if body != nil {
		rc, err := body()
		if err != nil {
			return nil, errors.Wrapf(err, "rewind request body")
		}
		out.Body = rc
	}
	if tok != nil && tok.AccessToken != "" {
		tok.SetAuthHeader(out)
	}
	return out, nil
}
