package dialog

// ConfirmationStatus reports whether the user has been asked to confirm the
// current intent and how they answered.
type ConfirmationStatus string

const (
	ConfirmationNone      ConfirmationStatus = "None"
	ConfirmationConfirmed ConfirmationStatus = "Confirmed"
	ConfirmationDenied    ConfirmationStatus = "Denied"
)

// InvocationSource identifies which code hook the platform is calling.
type InvocationSource string

const (
	SourceDialogCodeHook      InvocationSource = "DialogCodeHook"
	SourceFulfillmentCodeHook InvocationSource = "FulfillmentCodeHook"
)

// Slots maps slot names to values. A nil value means the slot is unfilled.
type Slots map[string]*string

// Value returns the slot value, or "" when the slot is absent or null.
func (s Slots) Value(name string) string {
	if v := s[name]; v != nil {
		return *v
	}
	return ""
}

// Event is the per-turn context the dialog engine hands to a code hook.
type Event struct {
	MessageVersion    string            `json:"messageVersion"`
	InvocationSource  InvocationSource  `json:"invocationSource"`
	UserID            string            `json:"userId"`
	InputTranscript   string            `json:"inputTranscript"`
	OutputDialogMode  string            `json:"outputDialogMode"`
	SessionAttributes map[string]string `json:"sessionAttributes"`
	RequestAttributes map[string]string `json:"requestAttributes"`
	Bot               Bot               `json:"bot"`
	CurrentIntent     Intent            `json:"currentIntent"`
}

// Bot describes the bot that received the user input.
type Bot struct {
	Name    string `json:"name"`
	Alias   string `json:"alias"`
	Version string `json:"version"`
}

// Intent is the intent the engine believes the user is pursuing.
type Intent struct {
	Name               string             `json:"name"`
	Slots              Slots              `json:"slots"`
	ConfirmationStatus ConfirmationStatus `json:"confirmationStatus"`
}

// SessionAttribute returns a session attribute, or "" when unset.
func (e *Event) SessionAttribute(key string) string {
	return e.SessionAttributes[key]
}
