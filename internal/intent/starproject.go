package intent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/drewdunne/oscar/internal/dedupe"
	"github.com/drewdunne/oscar/internal/dialog"
	"github.com/drewdunne/oscar/internal/metrics"
	"github.com/drewdunne/oscar/internal/provider"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// Names the StarProject intent shares with the bot definition.
const (
	StarProjectIntent = "StarProject"

	SlotUsername = "GitHubUsername"
	SlotPassword = "GitHubPassword"

	// AttrRepository holds owner/name of the repository to star. An earlier
	// turn of the session sets it.
	AttrRepository = "Repository"
	// AttrProvider optionally selects the hosting provider.
	AttrProvider = "Provider"
)

var (
	// ErrUnknownConfirmationStatus is returned for a status other than
	// None, Confirmed or Denied.
	ErrUnknownConfirmationStatus = errors.New("unknown confirmation status")

	// ErrUnknownProvider is returned when the session names a provider
	// that is not configured.
	ErrUnknownProvider = errors.New("unknown provider")
)

// Providers looks up hosting providers by name. An empty name selects the
// default provider.
type Providers interface {
	Get(name string) provider.Provider
}

// Messages resolves localized message text.
type Messages interface {
	Lookup(key string, params map[string]string) string
}

// StarProject stars a repository on behalf of the user once they have given
// their credentials and confirmed.
type StarProject struct {
	providers Providers
	messages  Messages
	log       *zap.Logger
	timeout   time.Duration
	dedupe    dedupe.Store
}

// StarProjectOption configures StarProject.
type StarProjectOption func(*StarProject)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) StarProjectOption {
	return func(h *StarProject) {
		h.log = log
	}
}

// WithTimeout bounds the login and star calls of one turn.
func WithTimeout(d time.Duration) StarProjectOption {
	return func(h *StarProject) {
		h.timeout = d
	}
}

// WithDedupe answers repeated confirmed turns from store instead of calling
// the provider again.
func WithDedupe(store dedupe.Store) StarProjectOption {
	return func(h *StarProject) {
		h.dedupe = store
	}
}

// NewStarProject creates the StarProject handler.
func NewStarProject(providers Providers, messages Messages, opts ...StarProjectOption) *StarProject {
	h := &StarProject{
		providers: providers,
		messages:  messages,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// starSlots are the slots StarProject collects.
type starSlots struct {
	Username string `mapstructure:"GitHubUsername"`
	Password string `mapstructure:"GitHubPassword"`
}

func decodeSlots(slots dialog.Slots) (starSlots, error) {
	var s starSlots
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return s, fmt.Errorf("failed to initialize slot decoder: %w", err)
	}

	if err := dec.Decode(map[string]*string(slots)); err != nil {
		return s, fmt.Errorf("decoding slots: %w", err)
	}
	return s, nil
}

// Handle runs one turn: elicit missing credentials, ask for confirmation,
// then star. Provider failures become a Failed response, never an error.
func (h *StarProject) Handle(ctx context.Context, evt *dialog.Event) (*dialog.Response, error) {
	slots, err := decodeSlots(evt.CurrentIntent.Slots)
	if err != nil {
		return nil, err
	}

	attrs := evt.SessionAttributes
	current := evt.CurrentIntent

	if slots.Username == "" {
		metrics.SlotElicited()
		return dialog.ElicitSlotResponse(attrs, current.Name, current.Slots, SlotUsername,
			h.text("starProjectRequestUsername", nil)), nil
	}
	if slots.Password == "" {
		metrics.SlotElicited()
		return dialog.ElicitSlotResponse(attrs, current.Name, current.Slots, SlotPassword,
			h.text("starProjectRequestPassword", nil)), nil
	}

	repository := evt.SessionAttribute(AttrRepository)

	switch current.ConfirmationStatus {
	case dialog.ConfirmationDenied:
		metrics.StarDeclined()
		return dialog.FulfilledResponse(attrs, h.text("starProjectDenied", nil)), nil

	case dialog.ConfirmationNone, "":
		if _, err := provider.ParseRepository(repository); err != nil {
			metrics.StarFailed()
			h.log.Error("no repository to confirm",
				zap.String("intent", current.Name),
				zap.String("username", slots.Username),
				zap.Error(err),
			)
			return dialog.FailedResponse(attrs, h.text("starProjectFailed", nil)), nil
		}

		metrics.ConfirmationRequested()
		msg := h.text("starProjectConfirm", map[string]string{
			"repository": repository,
			"username":   slots.Username,
		})
		card := dialog.BuildResponseCard(h.messages.Lookup("starProjectConfirmTitle", nil), nil, []dialog.Button{
			{Text: "Yes", Value: "Yes"},
			{Text: "No", Value: "No"},
		})
		return dialog.ConfirmIntentResponse(attrs, current.Name, current.Slots, msg, card), nil

	case dialog.ConfirmationConfirmed:
		return h.fulfill(ctx, evt, slots, repository), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownConfirmationStatus, current.ConfirmationStatus)
	}
}

// fulfill stars the repository and maps the outcome to a closing response.
func (h *StarProject) fulfill(ctx context.Context, evt *dialog.Event, slots starSlots, repository string) *dialog.Response {
	attrs := evt.SessionAttributes
	log := h.log.With(
		zap.String("intent", evt.CurrentIntent.Name),
		zap.String("username", slots.Username),
		zap.String("repository", repository),
		zap.String("provider", evt.SessionAttribute(AttrProvider)),
	)

	deduplicated, err := h.star(ctx, log, evt.SessionAttribute(AttrProvider), slots, repository)
	if err != nil {
		metrics.StarFailed()
		log.Error("error starring project", zap.Error(err))
		return dialog.FailedResponse(attrs, h.text("starProjectFailed", nil))
	}

	if deduplicated {
		metrics.StarDeduplicated()
		log.Info("repository starred recently, not calling provider again")
	} else {
		metrics.StarSucceeded()
		log.Info("starred repository")
	}

	return dialog.FulfilledResponse(attrs, h.text("starProjectSuccessResponse", map[string]string{
		"repository": repository,
	}))
}

// star logs in and stars. It reports true when a recent identical star made
// the call unnecessary.
func (h *StarProject) star(ctx context.Context, log *zap.Logger, providerName string, slots starSlots, repository string) (bool, error) {
	p := h.providers.Get(providerName)
	if p == nil {
		return false, fmt.Errorf("%w: %q", ErrUnknownProvider, providerName)
	}

	repo, err := provider.ParseRepository(repository)
	if err != nil {
		return false, err
	}

	key := dedupe.Key(p.Name(), slots.Username, repo.FullName())
	if h.dedupe != nil {
		seen, err := h.dedupe.Seen(ctx, key)
		if err != nil {
			log.Warn("dedupe lookup failed", zap.Error(err))
		} else if seen {
			return true, nil
		}
	}

	callCtx := ctx
	if h.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	sess, err := p.Login(callCtx, slots.Username, slots.Password)
	if err != nil {
		return false, err
	}

	if err := sess.Star(callCtx, repo); err != nil {
		return false, err
	}

	if h.dedupe != nil {
		if err := h.dedupe.Record(ctx, key); err != nil {
			log.Warn("dedupe record failed", zap.Error(err))
		}
	}
	return false, nil
}

func (h *StarProject) text(key string, params map[string]string) *dialog.Message {
	return dialog.PlainText(h.messages.Lookup(key, params))
}
