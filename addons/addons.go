// Package addons lists every addon compiled into the bot.
package addons

import (
	"github.com/neushore/proxima/addon"
	"github.com/neushore/proxima/addons/template"
)

// All is loaded in order on startup.
var All = []addon.Constructor{
	template.New,
}
