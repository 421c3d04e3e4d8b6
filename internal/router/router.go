package router

import (
	"context"
	"errors"

	"discord-strada/internal/discord"
)

// ErrNoRoute is returned by Resolve when no route matches and no
// wildcard is registered.
var ErrNoRoute = errors.New("no matching route")

// Wildcard is the catch-all route token, always tried last.
const Wildcard = "*"

// Handler processes a command and returns a plain string, a
// *model.MessagePayload, or nil.
type Handler func(ctx context.Context, cmd *discord.Command) (any, error)

// Middleware wraps a handler with cross-cutting behavior without
// changing its signature.
type Middleware func(Handler) Handler

// Route maps an ordered token path to a handler. Routes are immutable
// after registration.
type Route struct {
	Tokens  []string
	Handler Handler
}

// Table is the process-wide route registry: an insertion-ordered list
// resolved by structural equality of token paths. It is built once at
// startup, injected where needed, and never mutated afterwards, so it
// is safe to share across requests.
type Table struct {
	routes   []*Route
	wildcard *Route
}

// New returns an empty table.
func New() *Table {
	return &Table{}
}

// Register adds a route. Middlewares compose right to left so the
// first listed wraps outermost. Registering ["*"] installs the
// wildcard fallback.
func (t *Table) Register(tokens []string, h Handler, mws ...Middleware) {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	route := &Route{Tokens: tokens, Handler: h}
	if len(tokens) == 1 && tokens[0] == Wildcard {
		t.wildcard = route
		return
	}
	t.routes = append(t.routes, route)
}

// Resolve finds the handler whose token path equals the given path.
// Exact matches win over the wildcard; the wildcard, when registered,
// matches anything else.
func (t *Table) Resolve(path []string) (Handler, error) {
	for _, route := range t.routes {
		if equalTokens(route.Tokens, path) {
			return route.Handler, nil
		}
	}
	if t.wildcard != nil {
		return t.wildcard.Handler, nil
	}
	return nil, ErrNoRoute
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
