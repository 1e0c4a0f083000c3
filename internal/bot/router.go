// Package bot routes chat events to handlers behind the user allow-list.
//
// Routes are registered once at startup. After the first Dispatch the
// routing table is only read, so a Router is safe for concurrent use by
// one goroutine per inbound event.
package bot

import (
	"context"
	"fmt"

	"github.com/apela812/server-stat-TG/internal/models"

	"go.uber.org/zap"
)

// AccessDeniedText is sent to unauthorized users who invoke a command
const AccessDeniedText = "❌ У вас нет доступа к этому боту."

// TriggerKind is the kind of inbound event a route matches
type TriggerKind int

const (
	// Command is a slash command; the trigger is the name without the slash.
	Command TriggerKind = iota
	// Text is a reply-keyboard button press, matched on the exact label.
	Text
	// Callback is an inline-keyboard press, matched on its callback data.
	Callback
)

func (k TriggerKind) String() string {
	switch k {
	case Command:
		return "command"
	case Text:
		return "text"
	case Callback:
		return "callback"
	}
	return fmt.Sprintf("TriggerKind(%d)", int(k))
}

// Event is a transport-independent inbound chat event
type Event struct {
	Kind      TriggerKind
	Trigger   string
	UserID    int64
	FirstName string
	ChatID    int64
	// MessageID is the message a callback button belongs to.
	MessageID  int
	CallbackID string
}

// HandlerFunc produces the response for one event
type HandlerFunc func(ctx context.Context, ev *Event) (*models.Response, error)

// Guard decides whether a user may reach any route
type Guard interface {
	IsAllowed(userID int64) bool
}

type routeKey struct {
	kind    TriggerKind
	trigger string
}

// Router matches events to handlers by exact trigger
type Router struct {
	guard    Guard
	routes   map[routeKey]HandlerFunc
	log      *zap.Logger
	onDenied func(ev *Event)
}

// NewRouter creates an empty router guarded by guard
func NewRouter(guard Guard, logger *zap.Logger) *Router {
	return &Router{
		guard:  guard,
		routes: make(map[routeKey]HandlerFunc),
		log:    logger,
	}
}

// Command binds a slash command, given without the leading slash
func (r *Router) Command(name string, h HandlerFunc) {
	r.handle(Command, name, h)
}

// Text binds an exact reply-keyboard label
func (r *Router) Text(label string, h HandlerFunc) {
	r.handle(Text, label, h)
}

// Callback binds an inline-keyboard callback token
func (r *Router) Callback(data string, h HandlerFunc) {
	r.handle(Callback, data, h)
}

func (r *Router) handle(kind TriggerKind, trigger string, h HandlerFunc) {
	key := routeKey{kind: kind, trigger: trigger}
	if _, exists := r.routes[key]; exists {
		panic(fmt.Sprintf("bot: duplicate %s route %q", kind, trigger))
	}
	r.routes[key] = h
}

// OnDenied sets a hook invoked for every rejected event
func (r *Router) OnDenied(fn func(ev *Event)) {
	r.onDenied = fn
}

// Routes returns the number of registered routes
func (r *Router) Routes() int {
	return len(r.routes)
}

// Dispatch runs the handler bound to ev. It returns a nil response when
// no route matches or the event is dropped.
//
// Rejected commands get AccessDeniedText. Rejected button presses and
// callbacks are dropped without a reply.
func (r *Router) Dispatch(ctx context.Context, ev *Event) (*models.Response, error) {
	h, ok := r.routes[routeKey{kind: ev.Kind, trigger: ev.Trigger}]
	if !ok {
		return nil, nil
	}

	if !r.guard.IsAllowed(ev.UserID) {
		if r.onDenied != nil {
			r.onDenied(ev)
		}
		if ev.Kind == Command {
			return &models.Response{Text: AccessDeniedText}, nil
		}
		return nil, nil
	}

	r.log.Debug("dispatch",
		zap.Stringer("kind", ev.Kind),
		zap.String("trigger", ev.Trigger),
		zap.Int64("user", ev.UserID))

	resp, err := h(ctx, ev)
	if err != nil {
		return nil, fmt.Errorf("%s %q: %w", ev.Kind, ev.Trigger, err)
	}
	if resp != nil && ev.Kind == Callback {
		resp.Edit = true
	}
	return resp, nil
}
