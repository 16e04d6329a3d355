// Package modal builds Discord modals from declarative config.
package modal

import (
	"fmt"
	"strings"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
)

const (
	// MaxRows is the number of rows a modal can have, and the number of row slots in Config.
	MaxRows = 5
	// MaxComponents is the number of components a single row can hold.
	MaxComponents = 5
	// MaxInputLength is the longest value Discord accepts for a text input.
	MaxInputLength = 4000
)

const (
	ErrMissingTitle      = errors.Sentinel("modal requires a Title")
	ErrMissingCustomID   = errors.Sentinel("modal requires a CustomID")
	ErrComponentCustomID = errors.Sentinel("component requires a CustomID")
)

// Modal is a built modal, ready to be sent as an interaction response.
type Modal struct {
	Title    string
	CustomID discord.ComponentID
	Rows     []discord.ActionRowComponent
}

// Response returns the modal interaction response for m.
func (m *Modal) Response() api.InteractionResponse {
	components := make(discord.ContainerComponents, 0, len(m.Rows))
	for i := range m.Rows {
		row := m.Rows[i]
		components = append(components, &row)
	}

	return api.InteractionResponse{
		Type: api.ModalResponse,
		Data: &api.InteractionResponseData{
			CustomID:   option.NewNullableString(string(m.CustomID)),
			Title:      option.NewNullableString(m.Title),
			Components: &components,
		},
	}
}

// Setup builds a modal from settings.
// Unknown component types are ignored. Rows that end up empty or with more than
// MaxComponents components are left out of the modal.
func Setup(settings Settings) (*Modal, error) {
	conf := settings.Config
	vars := settings.Variables

	title := conf.Title.resolve(settings.Rand)
	if title == "" {
		return nil, ErrMissingTitle
	}
	if conf.CustomID == "" {
		return nil, ErrMissingCustomID
	}

	m := &Modal{
		Title:    apply(title, vars),
		CustomID: discord.ComponentID(apply(conf.CustomID, vars)),
	}

	for slot := 1; slot <= MaxRows; slot++ {
		components := conf.Rows[slot]
		if len(components) == 0 {
			continue
		}

		var row discord.ActionRowComponent
		for i, c := range components {
			if c.CustomID == "" {
				return nil, errors.Wrapf(ErrComponentCustomID, "row %d, component %d", slot, i+1)
			}

			switch strings.ToLower(c.Type) {
			case "text":
				row = append(row, textInput(c, vars, settings))
			}
		}

		if len(row) > 0 && len(row) <= MaxComponents {
			m.Rows = append(m.Rows, row)
		}
	}

	return m, nil
}

func textInput(c Component, vars []Variable, settings Settings) *discord.TextInputComponent {
	t := &discord.TextInputComponent{
		CustomID: discord.ComponentID(c.CustomID),
		Style:    inputStyle(apply(c.Style, vars)),
		Required: c.Required,
	}

	if label := apply(c.Label.resolve(settings.Rand), vars); label != "" {
		t.Label = label
	}
	t.Value = apply(c.DefaultValue.resolve(settings.Rand), vars)
	t.Placeholder = apply(c.Placeholder.resolve(settings.Rand), vars)

	// both limits are sent as soon as either is set
	if c.MinLength > 0 {
		t.LengthLimits = [2]int{c.MinLength, MaxInputLength}
	}
	if c.MaxLength > 0 {
		t.LengthLimits[1] = c.MaxLength
	}

	return t
}

func inputStyle(s string) discord.TextInputStyle {
	switch strings.ToLower(s) {
	case "paragraph", "long":
		return discord.TextInputParagraphStyle
	default:
		return discord.TextInputShortStyle
	}
}

// apply runs every variable over s, in order.
func apply(s string, vars []Variable) string {
	if s == "" {
		return s
	}

	for _, v := range vars {
		if v.SearchFor == nil {
			continue
		}
		s = v.SearchFor.ReplaceAllLiteralString(s, fmt.Sprint(v.ReplaceWith))
	}
	return s
}

// Values returns the submitted text input values from a modal submit, keyed by custom ID.
func Values(data *discord.ModalInteraction) map[string]string {
	values := make(map[string]string)

	for _, c := range data.Components {
		row, ok := c.(*discord.ActionRowComponent)
		if !ok {
			continue
		}

		for _, ic := range *row {
			input, ok := ic.(*discord.TextInputComponent)
			if !ok || input.Value == "" {
				continue
			}
			values[string(input.CustomID)] = input.Value
		}
	}

	return values
}
