package bot

import (
	"os"

	"emperror.dev/errors"
	"github.com/BurntSushi/toml"
	"github.com/diamondburned/arikawa/v3/discord"
)

const ErrNoToken = errors.Sentinel("no Discord token set (auth.discord in config, or TOKEN in the environment)")

type Config struct {
	Auth AuthConfig `toml:"auth"`
	Bot  BotConfig  `toml:"bot"`
	Info InfoConfig `toml:"info"`
	Web  WebConfig  `toml:"web"`
}

type AuthConfig struct {
	Discord string `toml:"discord"`
	// If Redis is empty, cooldowns are kept in memory.
	Redis  string `toml:"redis"`
	Sentry string `toml:"sentry"`
}

type BotConfig struct {
	Owner           discord.UserID  `toml:"owner"`
	CommandsGuildID discord.GuildID `toml:"commands_guild_id"`
	NoSyncCommands  bool            `toml:"no_sync_commands"`

	// AddonConfigDir is the directory per-addon config files are stored in.
	// Defaults to data/addon_configs.
	AddonConfigDir string `toml:"addon_config_dir"`
}

type InfoConfig struct {
	SupportServer string `toml:"support_server"`
}

type WebConfig struct {
	// Listen is the address the status server listens on. The server is disabled if this is empty.
	Listen string `toml:"listen"`
}

func ReadConfig(path string) (c Config, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "read config file")
	}

	err = toml.Unmarshal(b, &c)
	if err != nil {
		return c, errors.Wrap(err, "unmarshal config")
	}

	// the environment takes precedence, so tokens can stay out of config.toml
	if token := os.Getenv("TOKEN"); token != "" {
		c.Auth.Discord = token
	}

	if c.Auth.Discord == "" {
		return c, ErrNoToken
	}
	return c, nil
}
