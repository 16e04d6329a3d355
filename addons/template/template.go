// Package template is an example addon. Copy it to start a new one.
package template

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/api/cmdroute"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"github.com/neushore/proxima/addon"
	"github.com/neushore/proxima/bot"
	"github.com/neushore/proxima/common"
	"github.com/neushore/proxima/common/log"
	"github.com/neushore/proxima/modal"
)

const (
	Name    = "AddonTemplate"
	Version = "v1.1.1"
)

type settings struct {
	Test bool `yaml:"test"`
}

type lang struct {
	TestReply     string `yaml:"test_reply"`
	FeedbackReply string `yaml:"feedback_reply"`
}

type commandConfig struct {
	Enabled     bool   `yaml:"Enabled"`
	Name        string `yaml:"Name"`
	Description string `yaml:"Description"`
	GuildOnly   bool   `yaml:"GuildOnly"`
	OwnerOnly   bool   `yaml:"OwnerOnly"`
	// Cooldown in seconds
	Cooldown int `yaml:"Cooldown"`
}

func (c commandConfig) command(handler bot.CommandFunc) bot.Command {
	return bot.Command{
		Data: api.CreateCommandData{
			Name:        c.Name,
			Description: c.Description,
		},
		Disabled:  !c.Enabled,
		GuildOnly: c.GuildOnly,
		OwnerOnly: c.OwnerOnly,
		Cooldown:  time.Duration(c.Cooldown) * time.Second,
		Handler:   handler,
	}
}

type commands struct {
	Test     commandConfig `yaml:"Test"`
	Feedback commandConfig `yaml:"Feedback"`
}

var defaults = map[string]any{
	"config": settings{Test: true},
	"lang": lang{
		TestReply:     "This is a test command!",
		FeedbackReply: "Thanks for the feedback, {user}!",
	},
	"commands": commands{
		Test: commandConfig{
			Enabled:     true,
			Name:        "test",
			Description: "This is a test command",
			GuildOnly:   true,
		},
		Feedback: commandConfig{
			Enabled:     true,
			Name:        "feedback",
			Description: "Send feedback to the developers",
			Cooldown:    30,
		},
	},
	"modals": map[string]modal.Config{
		"Feedback": {
			Title:    modal.Text{"Feedback", "Tell us what you think"},
			CustomID: "addon-template-feedback",
			Rows: map[int][]modal.Component{
				1: {{
					Type:        "text",
					CustomID:    "message",
					Style:       "paragraph",
					Label:       modal.Text{"What's on your mind, {user}?"},
					Required:    true,
					Placeholder: modal.Text{"Your feedback"},
					MinLength:   1,
					MaxLength:   1000,
				}},
				2: {{
					Type:     "text",
					CustomID: "contact",
					Label:    modal.Text{"How can we reach you?"},
				}},
			},
		},
	},
}

type templateAddon struct {
	settings settings
	lang     lang
	commands commands
	feedback modal.Config
}

// New constructs the addon.
func New(env addon.Env) (*addon.Addon, error) {
	a := env.New(Name, Version)

	conf, err := a.CustomConfig(defaults)
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}

	t := &templateAddon{
		settings: conf["config"].(settings),
		lang:     conf["lang"].(lang),
		commands: conf["commands"].(commands),
	}

	modals := conf["modals"].(map[string]modal.Config)
	feedback, ok := modals["Feedback"]
	if !ok {
		return nil, errors.New("modals config is missing the Feedback modal")
	}
	t.feedback = feedback

	a.SetLog(fmt.Sprintf("%v has been loaded! Version: %v", a.Name, a.Version)).
		SetDeveloper("BryanBot").
		SetDiscord("https://bryanbot.dev/discord").
		SetDocs("https://bryanbot.dev/docs").
		SetAdditional("Thank you for using BryanBot. We are happy to assist you if you have any further questions. Please check out our discord!").
		SetExecute(t.execute)

	return a, nil
}

func (t *templateAddon) execute(_ context.Context, b *bot.Bot) error {
	if t.settings.Test {
		log.Debugf("%v addon executed!", Name)
	}

	err := b.AddCommand(t.commands.Test.command(t.test))
	if err != nil {
		return err
	}

	err = b.AddCommand(t.commands.Feedback.command(t.openFeedback(b)))
	if err != nil {
		return err
	}

	return b.AddModalHandler(discord.ComponentID(t.feedback.CustomID), t.submitFeedback)
}

func (t *templateAddon) test(context.Context, cmdroute.CommandData) (*api.InteractionResponseData, error) {
	return &api.InteractionResponseData{
		Content: option.NewNullableString(t.lang.TestReply),
	}, nil
}

func (t *templateAddon) openFeedback(b *bot.Bot) bot.CommandFunc {
	return func(_ context.Context, data cmdroute.CommandData) (*api.InteractionResponseData, error) {
		m, err := t.feedbackModal(data.Event)
		if err != nil {
			return nil, err
		}

		return nil, b.RespondModal(data.Event, m)
	}
}

func (t *templateAddon) feedbackModal(ev *discord.InteractionEvent) (*modal.Modal, error) {
	return modal.Setup(modal.Settings{
		Config:    t.feedback,
		Variables: userVariables(ev),
	})
}

func (t *templateAddon) submitFeedback(_ context.Context, ev *discord.InteractionEvent, data *discord.ModalInteraction) (*api.InteractionResponseData, error) {
	values := modal.Values(data)

	var b strings.Builder
	b.WriteString(apply(t.lang.FeedbackReply, userVariables(ev)))
	for _, k := range common.SortedKeys(values) {
		fmt.Fprintf(&b, "\n**%v:** %v", k, values[k])
	}

	log.Infof("received feedback from %v", username(ev))

	return &api.InteractionResponseData{
		Content: option.NewNullableString(b.String()),
		Flags:   discord.EphemeralMessage,
	}, nil
}

var userPattern = regexp.MustCompile(`\{user\}`)

func userVariables(ev *discord.InteractionEvent) []modal.Variable {
	return []modal.Variable{{SearchFor: userPattern, ReplaceWith: username(ev)}}
}

func apply(s string, vars []modal.Variable) string {
	for _, v := range vars {
		s = v.SearchFor.ReplaceAllLiteralString(s, fmt.Sprint(v.ReplaceWith))
	}
	return s
}

func username(ev *discord.InteractionEvent) string {
	switch {
	case ev.Member != nil:
		return ev.Member.User.Username
	case ev.User != nil:
		return ev.User.Username
	}
	return "unknown"
}
