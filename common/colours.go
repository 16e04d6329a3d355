package common

import "github.com/diamondburned/arikawa/v3/discord"

// ColourRed is used for error embeds.
const ColourRed discord.Color = 0xE74C3C
