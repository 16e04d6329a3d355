// Package events has the bot's own gateway handlers.
package events

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/dustin/go-humanize"
	"github.com/neushore/proxima/addon"
	"github.com/neushore/proxima/bot"
	"github.com/neushore/proxima/common"
	"github.com/neushore/proxima/common/log"
	"github.com/shirou/gopsutil/v3/process"
)

const supportLink = "https://neushore.dev/discord"

type Bot struct {
	*bot.Bot

	registry *addon.Registry
	// dir is the directory whose size is reported as storage used
	dir string
}

func Setup(root *bot.Bot, registry *addon.Registry) {
	log.Debug("Adding ready handler")

	bot := &Bot{Bot: root, registry: registry, dir: "."}

	bot.AddHandler(bot.ready)
}

func (bot *Bot) ready(ev *gateway.ReadyEvent) {
	if ev.Shard != nil {
		log.Debugf("Shard %d/%d is ready!", ev.Shard.ShardID(), ev.Shard.NumShards())

		if ev.Shard.ShardID() != 0 {
			return
		}
	}

	if len(ev.Guilds) == 0 {
		log.Info(InviteLink(discord.AppID(ev.User.ID)))
		log.Errorf("Proxima is currently in %d servers. | Proxima requires at least 1 server.", len(ev.Guilds))
		log.Error("Use the invite link above to invite Proxima into your server.")
		return
	}

	for _, line := range Banner(common.Version()) {
		log.Info(line)
	}

	if bot.Config.Bot.NoSyncCommands {
		log.Info("Note: not syncing slash commands. Set no_sync_commands to false to sync commands")
	} else if err := bot.SyncCommands(); err != nil {
		log.Errorf("syncing slash commands: %v", err)
	} else if guildID := bot.Config.Bot.CommandsGuildID; guildID.IsValid() {
		log.Infof("Synced slash commands in %v", guildID)
	} else {
		log.Info("Synced slash commands")
	}

	for _, line := range bot.stats().lines() {
		log.Debug(line)
	}

	log.Infof("Logged in as %v", ev.User.Tag())
	log.Info("Everything has been loaded & Proxima is ready to use!")
}

// InviteLink returns the OAuth2 link to add the bot to a server.
func InviteLink(id discord.AppID) string {
	return fmt.Sprintf("https://discord.com/api/oauth2/authorize?client_id=%v&permissions=8&scope=bot%%20applications.commands", id)
}

// Banner returns the lines printed once the bot is online.
func Banner(version string) []string {
	return []string{
		"•«                                                          »•",
		fmt.Sprintf("             Proxima v%v is now online!", version),
		"               Thanks for using Proxima!",
		"",
		"       Join our Discord Server if you face any issues.",
		"               " + supportLink,
		"•«                                                          »•",
	}
}

type stats struct {
	storage  int64
	memory   uint64
	commands int
	handlers int
	addons   int
	failed   int
}

func (bot *Bot) stats() stats {
	s := stats{
		commands: len(bot.Commands()),
		handlers: bot.HandlerCount(),
	}

	if bot.registry != nil {
		s.addons = len(bot.registry.Loaded())
		s.failed = len(bot.registry.Failed())
	}

	size, err := DirSize(bot.dir)
	if err != nil {
		log.Errorf("getting storage used: %v", err)
	}
	s.storage = size

	p, err := process.NewProcess(int32(os.Getpid()))
	if err == nil {
		if mem, err := p.MemoryInfo(); err == nil {
			s.memory = mem.RSS
		}
	}

	return s
}

func (s stats) lines() []string {
	lines := []string{
		fmt.Sprintf("Currently using %v storage.", humanize.Bytes(uint64(s.storage))),
	}
	if s.memory > 0 {
		lines = append(lines, fmt.Sprintf("Currently using %v memory.", humanize.Bytes(s.memory)))
	}

	lines = append(lines,
		fmt.Sprintf("Loaded %v commands.", humanize.Comma(int64(s.commands))),
		fmt.Sprintf("Loaded %v events.", humanize.Comma(int64(s.handlers))),
		fmt.Sprintf("Loaded %v addons.", humanize.Comma(int64(s.addons))),
	)
	if s.failed > 0 {
		lines = append(lines, fmt.Sprintf("%v addons failed to load.", s.failed))
	}
	return lines
}

// DirSize returns the total size of all regular files under root.
func DirSize(root string) (int64, error) {
	var size int64

	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})
	return size, err
}
