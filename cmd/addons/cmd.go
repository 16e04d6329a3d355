// Package addons is the command that checks every compiled-in addon without connecting to Discord.
package addons

import (
	"fmt"
	"strings"

	"emperror.dev/errors"
	"github.com/neushore/proxima/addon"
	"github.com/neushore/proxima/addons"
	"github.com/neushore/proxima/bot"
	"github.com/urfave/cli/v2"
)

var Command = &cli.Command{
	Name:   "addons",
	Usage:  "Load every addon without connecting to Discord and report which ones fail",
	Action: run,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "config-dir",
			Value: addon.DefaultConfigDir,
			Usage: "Directory addon config files are stored in",
		},
	},
}

func run(c *cli.Context) error {
	b := bot.NewOffline(bot.Config{})
	defer b.Close()

	registry := addon.NewRegistry()
	handler, err := addon.NewHandler(b, registry, addon.Env{ConfigDir: c.String("config-dir")}, addons.All...)
	if err != nil {
		return errors.Wrap(err, "creating addon handler")
	}

	loaded, failed := handler.Initialize(c.Context)

	for _, a := range registry.All() {
		info := a.Info()

		fmt.Fprintf(c.App.Writer, "%v %v by %v: %v\n", info.Name, info.Version, info.Developer.Name, info.State)
		if info.Error != "" {
			fmt.Fprintf(c.App.Writer, "  error: %v\n", info.Error)
		}
		if len(info.Sections) > 0 {
			fmt.Fprintf(c.App.Writer, "  config: %v\n", strings.Join(info.Sections, ", "))
		}
	}

	var names []string
	for _, cmd := range b.Commands() {
		names = append(names, "/"+cmd.Name)
	}
	fmt.Fprintf(c.App.Writer, "%d addons loaded, %d failed, commands: %v\n", loaded, failed, strings.Join(names, " "))

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d addons failed to load", failed), 1)
	}
	return nil
}
