package intent

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/drewdunne/oscar/internal/dialog"
	"github.com/drewdunne/oscar/internal/metrics"
	"go.uber.org/zap"
)

// ErrUnknownIntent is returned when no handler is registered for an intent.
var ErrUnknownIntent = errors.New("unknown intent")

// Handler handles one conversational turn of an intent.
type Handler interface {
	Handle(ctx context.Context, evt *dialog.Event) (*dialog.Response, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, evt *dialog.Event) (*dialog.Response, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, evt *dialog.Event) (*dialog.Response, error) {
	return f(ctx, evt)
}

// Router dispatches code hook events to the handler registered for the
// current intent.
type Router struct {
	log      *zap.Logger
	handlers map[string]Handler
	mu       sync.RWMutex
}

// NewRouter creates an empty router.
func NewRouter(log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		log:      log,
		handlers: make(map[string]Handler),
	}
}

// Register registers h for intent name, replacing any previous handler.
func (r *Router) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Debug("registering intent handler", zap.String("intent", name))
	r.handlers[name] = h
}

// Intents returns the registered intent names.
func (r *Router) Intents() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// Dispatch runs the handler for evt's intent and returns its response.
func (r *Router) Dispatch(ctx context.Context, evt *dialog.Event) (*dialog.Response, error) {
	if evt == nil {
		return nil, errors.New("nil event")
	}

	metrics.TurnReceived()

	name := evt.CurrentIntent.Name
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()

	if !ok {
		r.log.Warn("no handler for intent", zap.String("intent", name))
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntent, name)
	}

	r.log.Debug("dispatching turn",
		zap.String("intent", name),
		zap.String("source", string(evt.InvocationSource)),
		zap.String("confirmation", string(evt.CurrentIntent.ConfirmationStatus)),
		zap.String("user_id", evt.UserID),
	)

	resp, err := h.Handle(ctx, evt)
	if err != nil {
		r.log.Error("intent handler failed", zap.String("intent", name), zap.Error(err))
		return nil, err
	}

	return resp, nil
}
