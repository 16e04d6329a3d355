package bot

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/api/cmdroute"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/neushore/proxima/common/log"
	"github.com/neushore/proxima/modal"
)

const ErrDuplicateModal = errors.Sentinel("a modal handler with this custom ID is already registered")

// interactionTimeout is how long Discord waits for an interaction response.
const interactionTimeout = 3 * time.Second

// ModalFunc handles a modal submit.
type ModalFunc func(ctx context.Context, ev *discord.InteractionEvent, data *discord.ModalInteraction) (*api.InteractionResponseData, error)

// AddModalHandler registers fn for modal submits with the given custom ID.
func (bot *Bot) AddModalHandler(customID discord.ComponentID, fn ModalFunc) error {
	bot.modalsMu.Lock()
	defer bot.modalsMu.Unlock()

	if _, ok := bot.modals[string(customID)]; ok {
		return errors.Wrapf(ErrDuplicateModal, "custom ID %q", customID)
	}

	bot.modals[string(customID)] = fn
	return nil
}

// RespondModal responds to an interaction with a modal.
func (bot *Bot) RespondModal(ev *discord.InteractionEvent, m *modal.Modal) error {
	s, _ := bot.StateFromGuildID(ev.GuildID)

	err := s.RespondInteraction(ev.ID, ev.Token, m.Response())
	if err != nil {
		return errors.Wrapf(err, "responding with modal %q", m.CustomID)
	}
	return nil
}

func (bot *Bot) interactionCreate(ev *gateway.InteractionCreateEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	resp := bot.handleInteraction(ctx, &ev.InteractionEvent)
	if resp == nil {
		return
	}

	s, _ := bot.StateFromGuildID(ev.GuildID)
	err := s.RespondInteraction(ev.ID, ev.Token, *resp)
	if err != nil {
		log.Errorf("responding to interaction %v: %v", ev.ID, err)
	}
}

func (bot *Bot) handleInteraction(ctx context.Context, ev *discord.InteractionEvent) *api.InteractionResponse {
	data, ok := ev.Data.(*discord.ModalInteraction)
	if !ok {
		return bot.Router.HandleInteraction(ev)
	}

	bot.modalsMu.RLock()
	fn, ok := bot.modals[string(data.CustomID)]
	bot.modalsMu.RUnlock()
	if !ok {
		log.Debugf("no handler for modal %q", data.CustomID)
		return nil
	}

	resp, err := fn(ctx, ev, data)
	if err != nil {
		log.Errorf("handling modal %q: %v", data.CustomID, err)
		resp = bot.ReportError(ev, err)
	}
	if resp == nil {
		return nil
	}

	return &api.InteractionResponse{
		Type: api.MessageInteractionWithSource,
		Data: resp,
	}
}

// withTimeout gives router handlers a context that expires after d.
// The router itself always passes a background context.
func withTimeout(d time.Duration) cmdroute.Middleware {
	return func(next cmdroute.InteractionHandler) cmdroute.InteractionHandler {
		return cmdroute.InteractionHandlerFunc(func(ctx context.Context, ev *discord.InteractionEvent) *api.InteractionResponse {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			return next.HandleInteraction(ctx, ev)
		})
	}
}
