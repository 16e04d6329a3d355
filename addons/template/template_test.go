package template

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/diamondburned/arikawa/v3/api/cmdroute"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/neushore/proxima/addon"
	"github.com/neushore/proxima/bot"
	"github.com/neushore/proxima/modal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, env addon.Env) (*addon.Addon, *bot.Bot) {
	t.Helper()

	b := bot.NewOffline(bot.Config{})
	t.Cleanup(func() { _ = b.Close() })

	r := addon.NewRegistry()
	h, err := addon.NewHandler(b, r, env, New)
	require.NoError(t, err)

	loaded, failed := h.Initialize(context.Background())
	require.Equal(t, 1, loaded)
	require.Equal(t, 0, failed)

	a, ok := r.Get(Name)
	require.True(t, ok)
	return a, b
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	a, b := load(t, addon.Env{ConfigDir: dir})

	assert.Equal(t, Version, a.Version)
	assert.Equal(t, "BryanBot", a.Developer.Name)
	assert.Equal(t, "https://bryanbot.dev/discord", a.Developer.Discord)
	assert.Equal(t, []string{"AddonTemplate has been loaded! Version: v1.1.1"}, a.Log())

	for _, section := range []string{"config", "lang", "commands", "modals"} {
		assert.FileExists(t, filepath.Join(dir, Name, section+".yml"))
	}

	var names []string
	for _, c := range b.Commands() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"test", "feedback"}, names)
}

func TestDisabledCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, Name), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, Name, "commands.yml"), []byte(`
Test:
  Enabled: false
  Name: test
`), 0o644))

	_, b := load(t, addon.Env{ConfigDir: dir})

	cmds := b.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "feedback", cmds[0].Name)
	// values missing from the file keep their defaults
	assert.Equal(t, "Send feedback to the developers", cmds[0].Description)
}

func TestTestCommand(t *testing.T) {
	ta := &templateAddon{lang: lang{TestReply: "hi"}}
	resp, err := ta.test(context.Background(), cmdroute.CommandData{})
	require.NoError(t, err)
	require.NotNil(t, resp.Content)
	assert.Equal(t, "hi", resp.Content.Val)
}

func TestFeedbackModal(t *testing.T) {
	ta := &templateAddon{feedback: defaults["modals"].(map[string]modal.Config)["Feedback"]}

	ev := &discord.InteractionEvent{User: &discord.User{Username: "bryan"}}
	m, err := ta.feedbackModal(ev)
	require.NoError(t, err)

	assert.Contains(t, []string{"Feedback", "Tell us what you think"}, m.Title)
	assert.Equal(t, discord.ComponentID("addon-template-feedback"), m.CustomID)
	require.Len(t, m.Rows, 2)

	input := m.Rows[0][0].(*discord.TextInputComponent)
	assert.Equal(t, "What's on your mind, bryan?", input.Label)
	assert.Equal(t, discord.TextInputParagraphStyle, input.Style)
	assert.True(t, input.Required)
}

func TestSubmitFeedback(t *testing.T) {
	ta := &templateAddon{lang: lang{FeedbackReply: "Thanks, {user}!"}}

	ev := &discord.InteractionEvent{Member: &discord.Member{User: discord.User{Username: "bryan"}}}
	data := &discord.ModalInteraction{
		CustomID: "addon-template-feedback",
		Components: discord.ContainerComponents{
			&discord.ActionRowComponent{
				&discord.TextInputComponent{CustomID: "message", Value: "great bot"},
			},
			&discord.ActionRowComponent{
				&discord.TextInputComponent{CustomID: "contact", Value: "bryan#0001"},
			},
		},
	}

	resp, err := ta.submitFeedback(context.Background(), ev, data)
	require.NoError(t, err)
	assert.Equal(t, discord.EphemeralMessage, resp.Flags)
	require.NotNil(t, resp.Content)
	assert.Equal(t, "Thanks, bryan!\n**contact:** bryan#0001\n**message:** great bot", resp.Content.Val)
}

func TestUsername(t *testing.T) {
	assert.Equal(t, "unknown", username(&discord.InteractionEvent{}))
	assert.Equal(t, "a", username(&discord.InteractionEvent{User: &discord.User{Username: "a"}}))
}
