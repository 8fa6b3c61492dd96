package dialog

// GenericCardContentType is the content type of generic response cards.
const GenericCardContentType = "application/vnd.amazonaws.card.generic"

// maxButtons is the number of buttons a generic attachment can show.
const maxButtons = 5

// ResponseCard is a display hint attached to a message.
type ResponseCard struct {
	ContentType        string              `json:"contentType"`
	Version            int                 `json:"version"`
	GenericAttachments []GenericAttachment `json:"genericAttachments"`
}

// GenericAttachment is one card of a response card.
type GenericAttachment struct {
	Title    string   `json:"title"`
	SubTitle *string  `json:"subTitle"`
	Buttons  []Button `json:"buttons"`
}

// Button is an option the user can pick instead of typing.
type Button struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// ConfirmIntentResponse builds a response asking the user to confirm intentName.
// Inputs are passed through as given.
func ConfirmIntentResponse(sessionAttributes map[string]string, intentName string, slots Slots, message *Message, card *ResponseCard) *Response {
	return &Response{
		SessionAttributes: sessionAttributes,
		DialogAction: ConfirmIntent{
			IntentName:   intentName,
			Slots:        slots,
			Message:      message,
			ResponseCard: card,
		},
	}
}

// DelegateResponse returns control of slot filling to the engine.
func DelegateResponse(sessionAttributes map[string]string, slots Slots) *Response {
	return &Response{
		SessionAttributes: sessionAttributes,
		DialogAction:      Delegate{Slots: slots},
	}
}

// ElicitSlotResponse asks the user for slotToElicit.
func ElicitSlotResponse(sessionAttributes map[string]string, intentName string, slots Slots, slotToElicit string, message *Message) *Response {
	return &Response{
		SessionAttributes: sessionAttributes,
		DialogAction: ElicitSlot{
			IntentName:   intentName,
			Slots:        slots,
			SlotToElicit: slotToElicit,
			Message:      message,
		},
	}
}

// FulfilledResponse closes the intent successfully.
func FulfilledResponse(sessionAttributes map[string]string, message *Message) *Response {
	return closeResponse(sessionAttributes, StateFulfilled, message)
}

// FailedResponse closes the intent as failed.
func FailedResponse(sessionAttributes map[string]string, message *Message) *Response {
	return closeResponse(sessionAttributes, StateFailed, message)
}

func closeResponse(sessionAttributes map[string]string, state FulfillmentState, message *Message) *Response {
	return &Response{
		SessionAttributes: sessionAttributes,
		DialogAction: Close{
			FulfillmentState: state,
			Message:          message,
		},
	}
}

// BuildResponseCard builds a generic card. A nil options slice yields nil
// buttons; otherwise only the first five options are kept.
func BuildResponseCard(title string, subTitle *string, options []Button) *ResponseCard {
	var buttons []Button
	if options != nil {
		n := min(len(options), maxButtons)
		buttons = make([]Button, n)
		copy(buttons, options[:n])
	}

	return &ResponseCard{
		ContentType: GenericCardContentType,
		Version:     1,
		GenericAttachments: []GenericAttachment{{
			Title:    title,
			SubTitle: subTitle,
			Buttons:  buttons,
		}},
	}
}
