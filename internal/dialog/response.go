package dialog

import (
	"encoding/json"
	"fmt"
)

// ActionType is the discriminator of a dialog action.
type ActionType string

const (
	TypeElicitSlot    ActionType = "ElicitSlot"
	TypeConfirmIntent ActionType = "ConfirmIntent"
	TypeClose         ActionType = "Close"
	TypeDelegate      ActionType = "Delegate"
)

// FulfillmentState is the outcome reported by a Close action.
type FulfillmentState string

const (
	StateFulfilled FulfillmentState = "Fulfilled"
	StateFailed    FulfillmentState = "Failed"
)

// Content types for messages.
const (
	ContentPlainText = "PlainText"
	ContentSSML      = "SSML"
)

// Action is one of ElicitSlot, ConfirmIntent, Close or Delegate.
type Action interface {
	Type() ActionType
}

// Message is text sent back to the user.
type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// PlainText wraps content in a plain text message.
func PlainText(content string) *Message {
	return &Message{ContentType: ContentPlainText, Content: content}
}

// ElicitSlot asks the user for the value of SlotToElicit.
type ElicitSlot struct {
	IntentName   string        `json:"intentName"`
	Slots        Slots         `json:"slots"`
	SlotToElicit string        `json:"slotToElicit"`
	Message      *Message      `json:"message,omitempty"`
	ResponseCard *ResponseCard `json:"responseCard,omitempty"`
}

// ConfirmIntent asks the user a yes/no question about the intent.
type ConfirmIntent struct {
	IntentName   string        `json:"intentName"`
	Slots        Slots         `json:"slots"`
	Message      *Message      `json:"message,omitempty"`
	ResponseCard *ResponseCard `json:"responseCard,omitempty"`
}

// Close ends the conversation for the intent.
type Close struct {
	FulfillmentState FulfillmentState `json:"fulfillmentState"`
	Message          *Message         `json:"message,omitempty"`
	ResponseCard     *ResponseCard    `json:"responseCard,omitempty"`
}

// Delegate hands slot filling back to the engine.
type Delegate struct {
	Slots Slots `json:"slots"`
}

func (ElicitSlot) Type() ActionType    { return TypeElicitSlot }
func (ConfirmIntent) Type() ActionType { return TypeConfirmIntent }
func (Close) Type() ActionType         { return TypeClose }
func (Delegate) Type() ActionType      { return TypeDelegate }

func (a ElicitSlot) MarshalJSON() ([]byte, error) {
	type fields ElicitSlot
	return json.Marshal(struct {
		Type ActionType `json:"type"`
		fields
	}{a.Type(), fields(a)})
}

func (a ConfirmIntent) MarshalJSON() ([]byte, error) {
	type fields ConfirmIntent
	return json.Marshal(struct {
		Type ActionType `json:"type"`
		fields
	}{a.Type(), fields(a)})
}

func (a Close) MarshalJSON() ([]byte, error) {
	type fields Close
	return json.Marshal(struct {
		Type ActionType `json:"type"`
		fields
	}{a.Type(), fields(a)})
}

func (a Delegate) MarshalJSON() ([]byte, error) {
	type fields Delegate
	return json.Marshal(struct {
		Type ActionType `json:"type"`
		fields
	}{a.Type(), fields(a)})
}

// Response is what a code hook returns to the dialog engine.
type Response struct {
	SessionAttributes map[string]string `json:"sessionAttributes"`
	DialogAction      Action            `json:"dialogAction"`
}

// UnmarshalJSON decodes the dialog action into its concrete type.
func (r *Response) UnmarshalJSON(data []byte) error {
	var raw struct {
		SessionAttributes map[string]string `json:"sessionAttributes"`
		DialogAction      json.RawMessage   `json:"dialogAction"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var head struct {
		Type ActionType `json:"type"`
	}
	if err := json.Unmarshal(raw.DialogAction, &head); err != nil {
		return fmt.Errorf("decoding dialog action type: %w", err)
	}

	var action Action
	switch head.Type {
	case TypeElicitSlot:
		action = &ElicitSlot{}
	case TypeConfirmIntent:
		action = &ConfirmIntent{}
	case TypeClose:
		action = &Close{}
	case TypeDelegate:
		action = &Delegate{}
	default:
		return fmt.Errorf("unknown dialog action type: %q", head.Type)
	}
	if err := json.Unmarshal(raw.DialogAction, action); err != nil {
		return fmt.Errorf("decoding %s: %w", head.Type, err)
	}

	r.SessionAttributes = raw.SessionAttributes
	r.DialogAction = deref(action)
	return nil
}

func deref(a Action) Action {
	switch v := a.(type) {
	case *ElicitSlot:
		return *v
	case *ConfirmIntent:
		return *v
	case *Close:
		return *v
	case *Delegate:
		return *v
	}
	return a
}
