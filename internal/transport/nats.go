// Package transport serves code hook events over NATS request/reply.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/drewdunne/oscar/internal/config"
	"github.com/drewdunne/oscar/internal/dialog"
	"github.com/drewdunne/oscar/internal/webhook"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Error codes carried in Reply.ErrorCode.
const (
	ErrorParseError    = "PARSE_ERROR"
	ErrorHandlerFailed = "HANDLER_FAILED"
)

// Reply is the message published in answer to a code hook request. Exactly
// one of Response and ErrorCode is set.
type Reply struct {
	Response     *dialog.Response `json:"response,omitempty"`
	ErrorCode    string           `json:"errorCode,omitempty"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
}

// NATSTransport answers code hook requests published on a subject.
type NATSTransport struct {
	conn     *nats.Conn
	sub      *nats.Subscription
	subject  string
	timeout  time.Duration
	dispatch webhook.DispatchFunc
	log      *zap.Logger
}

// NewNATSTransport connects to the server in cfg.
func NewNATSTransport(cfg *config.Config, dispatch webhook.DispatchFunc, log *zap.Logger) (*NATSTransport, error) {
	conn, err := nats.Connect(cfg.NATS.URL,
		nats.Name("oscar"),
		nats.Timeout(5*time.Second),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	t := newTransport(cfg, dispatch, log)
	t.conn = conn

	t.log.Info("connected to NATS", zap.String("url", cfg.NATS.URL))
	return t, nil
}

func newTransport(cfg *config.Config, dispatch webhook.DispatchFunc, log *zap.Logger) *NATSTransport {
	if log == nil {
		log = zap.NewNop()
	}
	return &NATSTransport{
		subject:  cfg.NATS.Subject,
		timeout:  cfg.NATSTimeout(),
		dispatch: dispatch,
		log:      log,
	}
}

// Start subscribes to the request subject.
func (t *NATSTransport) Start() error {
	sub, err := t.conn.Subscribe(t.subject, t.handleRequest)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", t.subject, err)
	}
	t.sub = sub

	t.log.Info("subscribed", zap.String("subject", t.subject))
	return nil
}

func (t *NATSTransport) handleRequest(msg *nats.Msg) {
	data, err := json.Marshal(t.process(msg.Data))
	if err != nil {
		t.log.Error("failed to marshal reply", zap.Error(err))
		return
	}

	if err := msg.Respond(data); err != nil {
		t.log.Error("failed to send reply", zap.String("subject", msg.Subject), zap.Error(err))
	}
}

// process decodes one request and runs it through dispatch.
func (t *NATSTransport) process(data []byte) *Reply {
	var evt dialog.Event
	if err := json.Unmarshal(data, &evt); err != nil {
		t.log.Warn("invalid code hook request", zap.Error(err))
		return &Reply{ErrorCode: ErrorParseError, ErrorMessage: "invalid request format"}
	}

	ctx := context.Background()
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	resp, err := t.dispatch(ctx, &evt)
	if err != nil {
		t.log.Error("code hook failed",
			zap.String("intent", evt.CurrentIntent.Name),
			zap.Error(err),
		)
		return &Reply{ErrorCode: ErrorHandlerFailed, ErrorMessage: err.Error()}
	}

	return &Reply{Response: resp}
}

// Close drains the subscription and closes the connection.
func (t *NATSTransport) Close() error {
	if t.sub != nil {
		if err := t.sub.Drain(); err != nil {
			t.log.Warn("draining subscription", zap.Error(err))
		}
	}
	if t.conn != nil {
		t.conn.Close()
		t.log.Info("NATS connection closed")
	}
	return nil
}
