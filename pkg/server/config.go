package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/hookdom/pkg/component"
	"github.com/vango-dev/hookdom/pkg/hooks"
	"github.com/vango-dev/hookdom/pkg/vdom"
)

// App is the component mounted for each session.
type App interface {
	Render(h *hooks.Hooks) *vdom.VNode
}

// Ticker is implemented by apps that advance on the server tick. Tick runs
// on the instance loop.
type Ticker interface {
	Tick()
}

// AppFactory creates a fresh App per session.
type AppFactory func() App

// Config configures a Server.
type Config struct {
	// Address is the address to listen on (e.g. ":8080").
	Address string

	// App creates the component of each session. Required.
	App AppFactory

	// Tick is the interval at which Ticker apps advance. Zero disables
	// ticking.
	Tick time.Duration

	// ReadBufferSize and WriteBufferSize size the websocket buffers.
	ReadBufferSize  int
	WriteBufferSize int

	// WriteTimeout bounds a single frame write.
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// CheckOrigin validates the websocket request origin.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// Registry enables pass metrics and the /metrics endpoint.
	Registry *prometheus.Registry

	// MetricsNamespace prefixes metric names. Default: "hookdom".
	MetricsNamespace string

	// Middleware wraps every render pass, outside the streaming step.
	Middleware []component.Middleware

	// HookOrderCheck enables the hook call count check.
	HookOrderCheck bool

	// Logger is the server logger. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults. App is left nil.
func DefaultConfig() *Config {
	return &Config{
		Address:          ":8080",
		Tick:             time.Second,
		ReadBufferSize:   1024,
		WriteBufferSize:  4096,
		WriteTimeout:     10 * time.Second,
		ShutdownTimeout:  5 * time.Second,
		CheckOrigin:      SameOriginCheck,
		MetricsNamespace: "hookdom",
	}
}

// withDefaults returns a copy of c with unset fields filled in.
func (c *Config) withDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.Address == "" {
		out.Address = d.Address
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = d.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = d.WriteBufferSize
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = d.WriteTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = d.ShutdownTimeout
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = d.CheckOrigin
	}
	if out.MetricsNamespace == "" {
		out.MetricsNamespace = d.MetricsNamespace
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}

// SameOriginCheck accepts requests without an Origin header and requests
// whose Origin host matches the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && u.Host == r.Host
}

// AllowOrigins returns an origin check accepting same-origin requests and
// the listed origins. "*" accepts any origin.
func AllowOrigins(origins ...string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		if allowed["*"] || SameOriginCheck(r) {
			return true
		}
		return allowed[r.Header.Get("Origin")]
	}
}
