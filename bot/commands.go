package bot

import (
	"context"
	"fmt"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/api/cmdroute"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"github.com/neushore/proxima/common/log"
	"github.com/neushore/proxima/store"
)

const (
	ErrNoCommandName    = errors.Sentinel("command has no name")
	ErrNoCommandHandler = errors.Sentinel("command has no handler")
	ErrDuplicateCommand = errors.Sentinel("a command with this name is already registered")
	ErrGuildAndDMOnly   = errors.Sentinel("command can't be both guild-only and DM-only")
)

// CommandFunc handles a slash command. A nil response with a nil error sends nothing,
// which handlers that respond on their own (for example with a modal) rely on.
type CommandFunc func(ctx context.Context, data cmdroute.CommandData) (*api.InteractionResponseData, error)

// Command is a slash command registered by an addon.
type Command struct {
	Data api.CreateCommandData

	// Disabled commands are skipped by AddCommand.
	Disabled  bool
	GuildOnly bool
	DMOnly    bool
	// OwnerOnly commands can only be run by the configured bot owner.
	OwnerOnly bool
	// Cooldown is per user.
	Cooldown time.Duration
	// Permissions are the default member permissions required to see the command.
	Permissions discord.Permissions

	Handler CommandFunc
}

// AddCommand registers a slash command on the router.
// It is synced to Discord in the ready handler.
func (bot *Bot) AddCommand(cmd Command) error {
	if cmd.Data.Name == "" {
		return ErrNoCommandName
	}
	if cmd.Handler == nil {
		return errors.Wrapf(ErrNoCommandHandler, "command %q", cmd.Data.Name)
	}
	if cmd.GuildOnly && cmd.DMOnly {
		return errors.Wrapf(ErrGuildAndDMOnly, "command %q", cmd.Data.Name)
	}

	if cmd.Disabled {
		log.Debugf("command %q is disabled, not registering it", cmd.Data.Name)
		return nil
	}

	bot.commandsMu.Lock()
	defer bot.commandsMu.Unlock()

	for _, c := range bot.commands {
		if c.Data.Name == cmd.Data.Name {
			return errors.Wrapf(ErrDuplicateCommand, "command %q", cmd.Data.Name)
		}
	}

	if cmd.Permissions != 0 {
		cmd.Data.DefaultMemberPermissions = discord.NewPermissions(cmd.Permissions)
	}

	bot.commands = append(bot.commands, cmd)
	bot.Router.AddFunc(cmd.Data.Name, bot.commandHandler(cmd))
	return nil
}

// Commands returns the data for all registered commands.
func (bot *Bot) Commands() []api.CreateCommandData {
	bot.commandsMu.Lock()
	defer bot.commandsMu.Unlock()

	data := make([]api.CreateCommandData, 0, len(bot.commands))
	for _, c := range bot.commands {
		data = append(data, c.Data)
	}
	return data
}

// SyncCommands overwrites the application's commands with the registered ones,
// either globally or in the configured commands guild.
func (bot *Bot) SyncCommands() error {
	s, _ := bot.StateFromGuildID(0)

	app, err := s.CurrentApplication()
	if err != nil {
		return errors.Wrap(err, "fetching application")
	}

	return bot.syncCommands(s, app.ID)
}

func (bot *Bot) syncCommands(s *state.State, appID discord.AppID) (err error) {
	cmds := bot.Commands()

	if guildID := bot.Config.Bot.CommandsGuildID; guildID.IsValid() {
		_, err = s.BulkOverwriteGuildCommands(appID, guildID, cmds)
	} else {
		_, err = s.BulkOverwriteCommands(appID, cmds)
	}
	if err != nil {
		return errors.Wrap(err, "overwriting commands")
	}
	return nil
}

func (bot *Bot) commandHandler(cmd Command) func(context.Context, cmdroute.CommandData) *api.InteractionResponseData {
	return func(ctx context.Context, data cmdroute.CommandData) *api.InteractionResponseData {
		ev := data.Event

		if msg, ok := bot.checkCommand(ctx, cmd, ev.GuildID, senderID(ev)); !ok {
			return ephemeral(msg)
		}

		resp, err := cmd.Handler(ctx, data)
		if err != nil {
			log.Errorf("running command %q: %v", cmd.Data.Name, err)
			return bot.ReportError(ev, err)
		}
		return resp
	}
}

// checkCommand checks if the command can run in this context.
// If it can't, it returns the message to show the user.
// A running cooldown is started when the check passes.
func (bot *Bot) checkCommand(ctx context.Context, cmd Command, guildID discord.GuildID, userID discord.UserID) (string, bool) {
	if cmd.GuildOnly && !guildID.IsValid() {
		return "This command can only be used in a server.", false
	}

	if cmd.DMOnly && guildID.IsValid() {
		return "This command can only be used in DMs.", false
	}

	if cmd.OwnerOnly {
		owner := bot.Config.Bot.Owner
		if !owner.IsValid() || userID != owner {
			return "This command can only be used by the bot owner.", false
		}
	}

	if cmd.Cooldown <= 0 {
		return "", true
	}

	key := store.CooldownKey(cmd.Data.Name, userID)

	left, err := bot.Cooldowns.Cooldown(ctx, key)
	if err != nil {
		// a broken cooldown store shouldn't make commands unusable
		log.Errorf("getting cooldown %v: %v", key, err)
		return "", true
	}

	if left > 0 {
		return fmt.Sprintf("You're on cooldown, try again in %v.", roundUp(left)), false
	}

	err = bot.Cooldowns.SetCooldown(ctx, key, cmd.Cooldown)
	if err != nil {
		log.Errorf("setting cooldown %v: %v", key, err)
	}
	return "", true
}

func roundUp(d time.Duration) time.Duration {
	r := d.Round(time.Second)
	if r < d {
		r += time.Second
	}
	return r
}

func senderID(ev *discord.InteractionEvent) discord.UserID {
	if ev.Member != nil {
		return ev.Member.User.ID
	}
	if ev.User != nil {
		return ev.User.ID
	}
	return 0
}

func ephemeral(content string) *api.InteractionResponseData {
	return &api.InteractionResponseData{
		Content: option.NewNullableString(content),
		Flags:   discord.EphemeralMessage,
	}
}
