package bot

import (
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/neushore/proxima/common"
)

// ReportError sends err to Sentry, if it's configured, and returns an ephemeral response
// telling the user an error occurred along with an error code they can report.
func (bot *Bot) ReportError(ev *discord.InteractionEvent, err error) *api.InteractionResponseData {
	var id string

	if bot.Config.Auth.Sentry != "" {
		hub := sentry.CurrentHub().Clone()
		userID := senderID(ev)
		hub.ConfigureScope(func(scope *sentry.Scope) {
			if userID.IsValid() {
				scope.SetUser(sentry.User{ID: userID.String()})
			}
			if ev.GuildID.IsValid() {
				scope.SetTag("guild", ev.GuildID.String())
			}
		})

		hub.AddBreadcrumb(&sentry.Breadcrumb{
			Data: map[string]any{
				"user": userID,
			},
			Level:     sentry.LevelError,
			Timestamp: time.Now().UTC(),
		}, nil)

		if eventID := hub.CaptureException(err); eventID != nil {
			id = string(*eventID)
		}
	}

	if id == "" {
		id = uuid.New().String()
	}

	description := "An internal error has occurred. If this issue persists, please contact the developer"
	if bot.Config.Info.SupportServer != "" {
		description += fmt.Sprintf(" in the [support server](%v)", bot.Config.Info.SupportServer)
	}
	description += " with the error code above."

	return &api.InteractionResponseData{
		Content: option.NewNullableString(fmt.Sprintf("Error code: ``%v``", id)),
		Embeds: &[]discord.Embed{{
			Title:       "Internal error occurred",
			Description: description,
			Color:       common.ColourRed,
			Timestamp:   discord.NowTimestamp(),
			Footer: &discord.EmbedFooter{
				Text: id,
			},
		}},
		Flags: discord.EphemeralMessage,
	}
}
