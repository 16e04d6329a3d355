package cmd

import (
	"os"

	"github.com/neushore/proxima/cmd/addons"
	"github.com/neushore/proxima/cmd/bot"
	"github.com/neushore/proxima/common"
	"github.com/urfave/cli/v2"
)

var app = &cli.App{
	Name:    "Proxima",
	Usage:   "Discord bot built out of addons",
	Version: common.Version(),

	Commands: []*cli.Command{
		bot.Command,
		addons.Command,
	},
}

func Run() error {
	return app.Run(os.Args)
}
