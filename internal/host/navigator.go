package host

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Veraticus/honcho/internal/common"
	"github.com/Veraticus/honcho/internal/service"
)

// Environment is where the editor is embedded.
type Environment string

const (
	// EnvNative is a native shell reachable through the bridge.
	EnvNative Environment = "native"
	// EnvWeb is a browser with its own route history.
	EnvWeb Environment = "web"
)

// ParseEnvironment validates an environment name.
func ParseEnvironment(s string) (Environment, error) {
	switch env := Environment(strings.ToLower(strings.TrimSpace(s))); env {
	case EnvNative, EnvWeb:
		return env, nil
	case "":
		return EnvWeb, nil
	}
	return "", fmt.Errorf("%w: host environment %q", common.ErrInvalidConfig, s)
}

// HistoryNavigator is an in-process route stack for the web environment.
type HistoryNavigator struct {
	routes []string
	mu     sync.Mutex
}

// NewHistoryNavigator starts a stack at the given routes, oldest first.
func NewHistoryNavigator(routes ...string) *HistoryNavigator {
	return &HistoryNavigator{routes: append([]string(nil), routes...)}
}

// Push records a visited route.
func (h *HistoryNavigator) Push(route string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
}

// Current returns the route on top of the stack.
func (h *HistoryNavigator) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.routes) == 0 {
		return ""
	}
	return h.routes[len(h.routes)-1]
}

// NavigateBack pops one route. The root route is never popped.
func (h *HistoryNavigator) NavigateBack(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.routes) <= 1 {
		slog.Debug("Already at root route")
		return nil
	}
	h.routes = h.routes[:len(h.routes)-1]
	return nil
}

// NewNavigator picks the back-navigation capability once for a session.
func NewNavigator(env Environment, bridge service.Navigator, history *HistoryNavigator) (service.Navigator, error) {
	switch env {
	case EnvNative:
		if bridge == nil {
			return nil, fmt.Errorf("%w: native environment needs host.url", common.ErrMissingConfig)
		}
		return bridge, nil
	case EnvWeb, "":
		if history == nil {
			history = NewHistoryNavigator("/")
		}
		return history, nil
	}
	return nil, fmt.Errorf("%w: host environment %q", common.ErrInvalidConfig, env)
}
