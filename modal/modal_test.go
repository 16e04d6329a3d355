package modal

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"regexp"
	"testing"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"
)

func textInputAt(t *testing.T, m *Modal, row, col int) *discord.TextInputComponent {
	t.Helper()

	require.Greater(t, len(m.Rows), row)
	require.Greater(t, len(m.Rows[row]), col)

	input, ok := m.Rows[row][col].(*discord.TextInputComponent)
	require.True(t, ok, "component is a %T", m.Rows[row][col])
	return input
}

func TestSetupSingleRow(t *testing.T) {
	m, err := Setup(Settings{Config: Config{
		Title:    Text{"T"},
		CustomID: "c1",
		Rows: map[int][]Component{
			1: {{Type: "text", CustomID: "f1", Label: Text{"L"}}},
		},
	}})
	require.NoError(t, err)

	assert.Equal(t, "T", m.Title)
	assert.Equal(t, discord.ComponentID("c1"), m.CustomID)
	require.Len(t, m.Rows, 1)
	require.Len(t, m.Rows[0], 1)

	input := textInputAt(t, m, 0, 0)
	assert.Equal(t, discord.ComponentID("f1"), input.CustomID)
	assert.Equal(t, "L", input.Label)
	assert.Equal(t, discord.TextInputShortStyle, input.Style)
	assert.False(t, input.Required)
	assert.Empty(t, input.Value)
	assert.Empty(t, input.Placeholder)
	assert.Equal(t, [2]int{0, 0}, input.LengthLimits)
}

func TestSetupMissingTitle(t *testing.T) {
	_, err := Setup(Settings{Config: Config{
		CustomID: "c1",
		// this row would fail on its own; the title check must come first
		Rows: map[int][]Component{1: {{Type: "text"}}},
	}})
	assert.ErrorIs(t, err, ErrMissingTitle)

	_, err = Setup(Settings{Config: Config{Title: Text{}, CustomID: "c1"}})
	assert.ErrorIs(t, err, ErrMissingTitle)
}

func TestSetupMissingCustomID(t *testing.T) {
	_, err := Setup(Settings{Config: Config{Title: Text{"T"}}})
	assert.ErrorIs(t, err, ErrMissingCustomID)
}

func TestSetupComponentWithoutCustomID(t *testing.T) {
	_, err := Setup(Settings{Config: Config{
		Title:    Text{"T"},
		CustomID: "c1",
		Rows: map[int][]Component{
			1: {{Type: "text", CustomID: "ok"}},
			2: {{Type: "text", Label: Text{"no id"}}},
		},
	}})
	assert.ErrorIs(t, err, ErrComponentCustomID)
}

func TestSetupDropsUnusableRows(t *testing.T) {
	six := make([]Component, 6)
	for i := range six {
		six[i] = Component{Type: "text", CustomID: fmt.Sprintf("f%d", i)}
	}

	m, err := Setup(Settings{Config: Config{
		Title:    Text{"T"},
		CustomID: "c1",
		Rows: map[int][]Component{
			1: {{Type: "button", CustomID: "b1"}, {Type: "select", CustomID: "s1"}},
			2: six,
			3: {{Type: "TEXT", CustomID: "kept"}},
			4: {},
			// slots outside 1-5 are ignored
			0: {{Type: "text", CustomID: "zero"}},
			6: {{Type: "text", CustomID: "six"}},
		},
	}})
	require.NoError(t, err)

	require.Len(t, m.Rows, 1)
	assert.Equal(t, discord.ComponentID("kept"), textInputAt(t, m, 0, 0).CustomID)
}

func TestSetupKeepsSlotOrder(t *testing.T) {
	m, err := Setup(Settings{Config: Config{
		Title:    Text{"T"},
		CustomID: "c1",
		Rows: map[int][]Component{
			5: {{Type: "text", CustomID: "five"}},
			2: {{Type: "text", CustomID: "two"}, {Type: "text", CustomID: "two-b"}},
		},
	}})
	require.NoError(t, err)

	require.Len(t, m.Rows, 2)
	assert.Len(t, m.Rows[0], 2)
	assert.Equal(t, discord.ComponentID("two"), textInputAt(t, m, 0, 0).CustomID)
	assert.Equal(t, discord.ComponentID("five"), textInputAt(t, m, 1, 0).CustomID)
}

func TestSetupTextInputFields(t *testing.T) {
	m, err := Setup(Settings{Config: Config{
		Title:    Text{"T"},
		CustomID: "c1",
		Rows: map[int][]Component{
			1: {{
				Type:         "text",
				CustomID:     "reason",
				Style:        "Paragraph",
				Label:        Text{"Reason"},
				Required:     true,
				DefaultValue: Text{"none"},
				Placeholder:  Text{"Why?"},
				MinLength:    5,
				MaxLength:    100,
			}},
		},
	}})
	require.NoError(t, err)

	input := textInputAt(t, m, 0, 0)
	assert.Equal(t, discord.TextInputParagraphStyle, input.Style)
	assert.Equal(t, "Reason", input.Label)
	assert.True(t, input.Required)
	assert.Equal(t, "none", input.Value)
	assert.Equal(t, "Why?", input.Placeholder)
	assert.Equal(t, [2]int{5, 100}, input.LengthLimits)
}

func TestSetupLengthLimits(t *testing.T) {
	tests := []struct {
		name      string
		component Component
		want      [2]int
		json      string
	}{
		{"min only", Component{MinLength: 10}, [2]int{10, MaxInputLength}, `"min_length":10,"max_length":4000`},
		{"max only", Component{MaxLength: 50}, [2]int{0, 50}, `"min_length":0,"max_length":50`},
		{"both", Component{MinLength: 5, MaxLength: 50}, [2]int{5, 50}, `"min_length":5,"max_length":50`},
		{"neither", Component{}, [2]int{0, 0}, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := test.component
			c.Type, c.CustomID, c.Label = "text", "f1", Text{"L"}

			m, err := Setup(Settings{Config: Config{
				Title:    Text{"T"},
				CustomID: "c1",
				Rows:     map[int][]Component{1: {c}},
			}})
			require.NoError(t, err)

			input := textInputAt(t, m, 0, 0)
			assert.Equal(t, test.want, input.LengthLimits)

			b, err := json.Marshal(input)
			require.NoError(t, err)
			if test.json == "" {
				assert.NotContains(t, string(b), "length")
			} else {
				assert.Contains(t, string(b), test.json)
			}
		})
	}
}

func TestInputStyle(t *testing.T) {
	tests := []struct {
		in   string
		want discord.TextInputStyle
	}{
		{"short", discord.TextInputShortStyle},
		{"SHORT", discord.TextInputShortStyle},
		{"paragraph", discord.TextInputParagraphStyle},
		{"long", discord.TextInputParagraphStyle},
		{"Long", discord.TextInputParagraphStyle},
		{"", discord.TextInputShortStyle},
		{"huge", discord.TextInputShortStyle},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, inputStyle(test.in), "style %q", test.in)
	}
}

func TestSetupVariables(t *testing.T) {
	vars := []Variable{
		{SearchFor: regexp.MustCompile(`\{user\}`), ReplaceWith: "Bryan"},
		{SearchFor: regexp.MustCompile(`\{id\}`), ReplaceWith: 42},
		{SearchFor: regexp.MustCompile(`\{style\}`), ReplaceWith: "long"},
	}

	m, err := Setup(Settings{
		Config: Config{
			Title:    Text{"Report for {user}"},
			CustomID: "report-{id}",
			Rows: map[int][]Component{
				1: {{
					Type:        "text",
					CustomID:    "details",
					Style:       "{style}",
					Label:       Text{"What did {user} do?"},
					Placeholder: Text{"{user} and {user}"},
				}},
			},
		},
		Variables: vars,
	})
	require.NoError(t, err)

	assert.Equal(t, "Report for Bryan", m.Title)
	assert.Equal(t, discord.ComponentID("report-42"), m.CustomID)

	input := textInputAt(t, m, 0, 0)
	// custom IDs of components are not substituted
	assert.Equal(t, discord.ComponentID("details"), input.CustomID)
	assert.Equal(t, discord.TextInputParagraphStyle, input.Style)
	assert.Equal(t, "What did Bryan do?", input.Label)
	assert.Equal(t, "Bryan and Bryan", input.Placeholder)
}

func TestVariablesAreLiteral(t *testing.T) {
	vars := []Variable{{SearchFor: regexp.MustCompile(`x`), ReplaceWith: "$1"}}
	assert.Equal(t, "a$1b", apply("axb", vars))
}

func TestSetupRandomTitle(t *testing.T) {
	candidates := Text{"A", "B", "C"}

	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")

		m, err := Setup(Settings{
			Config: Config{Title: candidates, CustomID: "c1"},
			Rand:   rand.New(rand.NewSource(seed)),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if m.Title != "A" && m.Title != "B" && m.Title != "C" {
			t.Fatalf("title %q is not one of the candidates", m.Title)
		}
	})
}

func TestSetupRandomTitleCoversCandidates(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := map[string]bool{}

	for i := 0; i < 200; i++ {
		m, err := Setup(Settings{
			Config: Config{Title: Text{"A", "B", "C"}, CustomID: "c1"},
			Rand:   rng,
		})
		require.NoError(t, err)
		seen[m.Title] = true
	}

	assert.Equal(t, map[string]bool{"A": true, "B": true, "C": true}, seen)
}

func TestConfigFromYAML(t *testing.T) {
	src := `
Title: [Feedback, Tell us more]
CustomID: feedback
Rows:
  1:
    - Type: text
      CustomID: message
      Label: Message
      Style: paragraph
      Required: true
  2:
    - Type: text
      CustomID: contact
      Label: [Email, Discord tag]
`

	var conf Config
	require.NoError(t, yaml.Unmarshal([]byte(src), &conf))

	assert.Equal(t, Text{"Feedback", "Tell us more"}, conf.Title)
	assert.Equal(t, Text{"Message"}, conf.Rows[1][0].Label)
	assert.Equal(t, Text{"Email", "Discord tag"}, conf.Rows[2][0].Label)

	m, err := Setup(Settings{Config: conf})
	require.NoError(t, err)
	assert.Len(t, m.Rows, 2)
	assert.Contains(t, []string{"Feedback", "Tell us more"}, m.Title)
}

func TestTextMarshalYAML(t *testing.T) {
	b, err := yaml.Marshal(Component{Type: "text", CustomID: "a", Label: Text{"One"}})
	require.NoError(t, err)
	assert.Contains(t, string(b), "Label: One\n")

	b, err = yaml.Marshal(Component{Type: "text", CustomID: "a", Label: Text{"One", "Two"}})
	require.NoError(t, err)
	assert.Contains(t, string(b), "- One\n")
}

func TestTextUnmarshalMapping(t *testing.T) {
	var c Component
	err := yaml.Unmarshal([]byte("Label: {a: b}\n"), &c)
	assert.Error(t, err)
}

func TestResponse(t *testing.T) {
	m, err := Setup(Settings{Config: Config{
		Title:    Text{"T"},
		CustomID: "c1",
		Rows: map[int][]Component{
			1: {{Type: "text", CustomID: "f1"}},
			2: {{Type: "text", CustomID: "f2"}},
		},
	}})
	require.NoError(t, err)

	resp := m.Response()
	assert.Equal(t, api.ModalResponse, resp.Type)
	require.NotNil(t, resp.Data)
	require.NotNil(t, resp.Data.Title)
	assert.Equal(t, "T", resp.Data.Title.Val)
	require.NotNil(t, resp.Data.CustomID)
	assert.Equal(t, "c1", resp.Data.CustomID.Val)
	require.NotNil(t, resp.Data.Components)
	require.Len(t, *resp.Data.Components, 2)

	row, ok := (*resp.Data.Components)[1].(*discord.ActionRowComponent)
	require.True(t, ok)
	assert.Equal(t, discord.ComponentID("f2"), (*row)[0].(*discord.TextInputComponent).CustomID)
}

func TestValues(t *testing.T) {
	data := &discord.ModalInteraction{
		CustomID: "c1",
		Components: discord.ContainerComponents{
			&discord.ActionRowComponent{
				&discord.TextInputComponent{CustomID: "a", Value: "first"},
			},
			&discord.ActionRowComponent{
				&discord.TextInputComponent{CustomID: "b"},
			},
		},
	}

	assert.Equal(t, map[string]string{"a": "first"}, Values(data))
}
