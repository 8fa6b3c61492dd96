package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/drewdunne/oscar/internal/dialog"
	"go.uber.org/zap"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body,
// prefixed with "sha256=".
const SignatureHeader = "X-Oscar-Signature-256"

// maxBodySize bounds code hook request bodies.
const maxBodySize = 1 << 20

// DispatchFunc handles one decoded code hook event.
type DispatchFunc func(ctx context.Context, evt *dialog.Event) (*dialog.Response, error)

// CodeHookHandler serves Lex code hook invocations over HTTP.
type CodeHookHandler struct {
	secret   string
	dispatch DispatchFunc
	log      *zap.Logger
}

// NewCodeHookHandler creates a new code hook handler. When secret is empty
// requests are not signature checked.
func NewCodeHookHandler(secret string, dispatch DispatchFunc, log *zap.Logger) *CodeHookHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CodeHookHandler{
		secret:   secret,
		dispatch: dispatch,
		log:      log,
	}
}

// ServeHTTP implements http.Handler.
func (h *CodeHookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if h.secret != "" {
		signature := r.Header.Get(SignatureHeader)
		if signature == "" {
			http.Error(w, "missing signature", http.StatusUnauthorized)
			return
		}
		if !h.verifySignature(body, signature) {
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
	}

	var evt dialog.Event
	if err := json.Unmarshal(body, &evt); err != nil {
		http.Error(w, "failed to parse event", http.StatusBadRequest)
		return
	}

	resp, err := h.dispatch(r.Context(), &evt)
	if err != nil {
		h.log.Error("code hook failed",
			zap.String("intent", evt.CurrentIntent.Name),
			zap.Error(err),
		)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Error("writing code hook response", zap.Error(err))
	}
}

// verifySignature checks signature against the HMAC of payload.
func (h *CodeHookHandler) verifySignature(payload []byte, signature string) bool {
	if !strings.HasPrefix(signature, "sha256=") {
		return false
	}

	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "sha256="))
	if err != nil {
		return false
	}

	return hmac.Equal(sig, Sign(h.secret, payload))
}

// Sign returns the HMAC-SHA256 of payload under secret.
func Sign(secret string, payload []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return mac.Sum(nil)
}
