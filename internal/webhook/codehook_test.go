package webhook

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/drewdunne/oscar/internal/dialog"
)

const testPayload = `{
	"currentIntent": {"name": "StarProject", "slots": {"GitHubUsername": null}, "confirmationStatus": "None"},
	"sessionAttributes": {"Repository": "octocat/Hello-World"},
	"invocationSource": "DialogCodeHook",
	"userId": "user-1"
}`

func sign(secret, payload string) string {
	return "sha256=" + hex.EncodeToString(Sign(secret, []byte(payload)))
}

func elicitUsername(_ context.Context, evt *dialog.Event) (*dialog.Response, error) {
	return dialog.ElicitSlotResponse(evt.SessionAttributes, evt.CurrentIntent.Name,
		evt.CurrentIntent.Slots, "GitHubUsername", dialog.PlainText("What is your username?")), nil
}

func TestCodeHookHandler_ValidSignature(t *testing.T) {
	secret := "test-secret"

	var got *dialog.Event
	handler := NewCodeHookHandler(secret, func(ctx context.Context, evt *dialog.Event) (*dialog.Response, error) {
		got = evt
		return elicitUsername(ctx, evt)
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/lex", strings.NewReader(testPayload))
	req.Header.Set(SignatureHeader, sign(secret, testPayload))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body = %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if got == nil || got.CurrentIntent.Name != "StarProject" {
		t.Fatalf("dispatched event = %+v, want StarProject", got)
	}
	if got.SessionAttribute("Repository") != "octocat/Hello-World" {
		t.Errorf("Repository = %q, want %q", got.SessionAttribute("Repository"), "octocat/Hello-World")
	}

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp dialog.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	action, ok := resp.DialogAction.(dialog.ElicitSlot)
	if !ok {
		t.Fatalf("DialogAction = %T, want ElicitSlot", resp.DialogAction)
	}
	if action.SlotToElicit != "GitHubUsername" {
		t.Errorf("SlotToElicit = %q, want GitHubUsername", action.SlotToElicit)
	}
}

func TestCodeHookHandler_InvalidSignature(t *testing.T) {
	handler := NewCodeHookHandler("test-secret", func(context.Context, *dialog.Event) (*dialog.Response, error) {
		t.Error("dispatch should not be called with invalid signature")
		return nil, nil
	}, nil)

	for _, signature := range []string{"sha256=invalid", "sha1=abcd", sign("other-secret", testPayload)} {
		req := httptest.NewRequest(http.MethodPost, "/lex", strings.NewReader(testPayload))
		req.Header.Set(SignatureHeader, signature)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("signature %q: status = %d, want %d", signature, rec.Code, http.StatusUnauthorized)
		}
	}
}

func TestCodeHookHandler_MissingSignature(t *testing.T) {
	handler := NewCodeHookHandler("test-secret", func(context.Context, *dialog.Event) (*dialog.Response, error) {
		t.Error("dispatch should not be called with missing signature")
		return nil, nil
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/lex", strings.NewReader(testPayload))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestCodeHookHandler_NoSecret(t *testing.T) {
	handler := NewCodeHookHandler("", elicitUsername, nil)

	req := httptest.NewRequest(http.MethodPost, "/lex", strings.NewReader(testPayload))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestCodeHookHandler_InvalidJSON(t *testing.T) {
	handler := NewCodeHookHandler("", func(context.Context, *dialog.Event) (*dialog.Response, error) {
		t.Error("dispatch should not be called with invalid JSON")
		return nil, nil
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/lex", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCodeHookHandler_MethodNotAllowed(t *testing.T) {
	handler := NewCodeHookHandler("", elicitUsername, nil)

	req := httptest.NewRequest(http.MethodGet, "/lex", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodPost {
		t.Errorf("Allow = %q, want POST", allow)
	}
}

func TestCodeHookHandler_DispatchError(t *testing.T) {
	handler := NewCodeHookHandler("", func(context.Context, *dialog.Event) (*dialog.Response, error) {
		return nil, errors.New("unknown intent")
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/lex", strings.NewReader(testPayload))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
