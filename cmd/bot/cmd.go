package bot

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emperror.dev/errors"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/neushore/proxima/addon"
	"github.com/neushore/proxima/addons"
	"github.com/neushore/proxima/bot"
	"github.com/neushore/proxima/common"
	"github.com/neushore/proxima/common/log"
	"github.com/neushore/proxima/events"
	"github.com/neushore/proxima/web/server"
	"github.com/urfave/cli/v2"
)

var Command = &cli.Command{
	Name:   "bot",
	Usage:  "Run the bot",
	Action: run,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "config.toml",
			Usage:   "Path to the bot's config file",
		},
		&cli.BoolFlag{
			Name:  "reset-configs",
			Usage: "Overwrite every addon config file with its defaults",
		},
	},
}

func run(c *cli.Context) error {
	err := godotenv.Load()
	if err != nil {
		log.Debugf("not loading .env: %v", err)
	}

	conf, err := bot.ReadConfig(c.String("config"))
	if err != nil {
		return errors.Wrap(err, "reading config")
	}

	// set up sentry
	if conf.Auth.Sentry != "" {
		log.Debug("setting up sentry")
		err := sentry.Init(sentry.ClientOptions{
			Dsn:     conf.Auth.Sentry,
			Release: common.Version(),
		})
		if err != nil {
			log.Fatalf("setting up sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)

		log.Debug("set up sentry")
	} else {
		log.Debugf("sentry DSN was not provided, not setting it up")
	}

	b, err := bot.New(conf)
	if err != nil {
		return errors.Wrap(err, "creating bot")
	}

	registry := addon.NewRegistry()
	env := addon.Env{
		ConfigDir:    conf.Bot.AddonConfigDir,
		ResetConfigs: c.Bool("reset-configs"),
	}
	if env.ResetConfigs {
		log.Info("Resetting all addon configs to their defaults")
	}

	handler, err := addon.NewHandler(b, registry, env, addons.All...)
	if err != nil {
		return errors.Wrap(err, "creating addon handler")
	}

	loaded, failed := handler.Initialize(c.Context)
	log.Infof("Loaded %d addons, %d failed", loaded, failed)

	events.Setup(b, registry)

	if conf.Web.Listen != "" {
		srv := server.New(registry, b.Start)
		err = srv.Listen(conf.Web.Listen)
		if err != nil {
			return errors.Wrap(err, "starting status server")
		}

		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			err := srv.Shutdown(ctx)
			if err != nil {
				log.Errorf("shutting down status server: %v", err)
			}
		}()
	}

	// actually run bot!
	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = b.Open(ctx)
	if err != nil {
		return errors.Wrap(err, "opening gateway connection")
	}

	defer func() {
		err := b.Close()
		if err != nil {
			log.Errorf("closing gateway connection: %v", err)
		}
		log.Info("Disconnected from Discord.")
	}()

	log.Info("Connected to Discord. Press Ctrl-C or send an interrupt signal to stop.")

	<-ctx.Done()
	log.Info("Interrupt signal received. Shutting down...")
	return nil
}
