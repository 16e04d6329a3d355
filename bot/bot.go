package bot

import (
	"context"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/api/cmdroute"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session/shard"
	"github.com/diamondburned/arikawa/v3/state"
	arikawastore "github.com/diamondburned/arikawa/v3/state/store"
	"github.com/diamondburned/arikawa/v3/utils/ws"
	"github.com/neushore/proxima/common/log"
	"github.com/neushore/proxima/store"
	"github.com/neushore/proxima/store/memory"
	"github.com/neushore/proxima/store/redis"
)

const Intents = gateway.IntentGuilds |
	gateway.IntentGuildMembers |
	gateway.IntentGuildMessages |
	gateway.IntentDirectMessages

// Bot is the manager every addon is executed against.
// Addons use it to register commands, modal handlers, and raw gateway handlers.
type Bot struct {
	Config Config
	Start  time.Time

	ShardManager *shard.Manager
	Router       *cmdroute.Router

	Cooldowns store.CooldownStore

	commands   []Command
	commandsMu sync.Mutex

	modals   map[string]ModalFunc
	modalsMu sync.RWMutex

	handlerCount int
}

// New creates a new Bot. It does not connect to Discord.
func New(c Config) (*Bot, error) {
	ws.WSDebug = log.Debug
	ws.WSError = func(err error) {
		log.SugaredLogger.Error("ws error: ", err)
	}

	bot := NewOffline(c)

	mgr, err := shard.NewManager("Bot "+c.Auth.Discord, state.NewShardFunc(func(m *shard.Manager, s *state.State) {
		s.AddIntents(Intents)

		// we don't read messages or presences from the cache
		s.Cabinet.MessageStore = arikawastore.Noop
		s.Cabinet.PresenceStore = arikawastore.Noop

		s.AddHandler(bot.interactionCreate)
	}))
	if err != nil {
		return nil, errors.Wrap(err, "creating shard manager")
	}
	bot.ShardManager = mgr

	if c.Auth.Redis != "" {
		cooldowns, err := redis.New(c.Auth.Redis)
		if err != nil {
			return nil, errors.Wrap(err, "creating redis store")
		}
		_ = bot.Cooldowns.Close()
		bot.Cooldowns = cooldowns
	}

	return bot, nil
}

// NewOffline creates a Bot without a gateway connection.
// Commands and handlers can be registered, but nothing is sent to Discord.
func NewOffline(c Config) *Bot {
	r := cmdroute.NewRouter()
	r.Use(withTimeout(interactionTimeout))

	return &Bot{
		Config:    c,
		Start:     time.Now().UTC(),
		Router:    r,
		Cooldowns: memory.New(),
		modals:    make(map[string]ModalFunc),
	}
}

func (bot *Bot) Open(ctx context.Context) error {
	log.Debug("opening gateway connection")

	return bot.ShardManager.Open(ctx)
}

func (bot *Bot) Close() error {
	err := bot.Cooldowns.Close()
	if err != nil {
		log.Errorf("closing cooldown store: %v", err)
	}

	if bot.ShardManager == nil {
		return nil
	}
	return bot.ShardManager.Close()
}

// AddHandler adds handlers to all states.
func (bot *Bot) AddHandler(i ...any) {
	bot.handlerCount += len(i)

	if bot.ShardManager == nil {
		return
	}

	bot.ShardManager.ForEach(func(shard shard.Shard) {
		s := shard.(*state.State)
		for _, hn := range i {
			s.AddHandler(hn)
		}
	})
}

// HandlerCount returns the number of gateway handlers added through AddHandler.
func (bot *Bot) HandlerCount() int {
	return bot.handlerCount
}

func (bot *Bot) StateFromGuildID(guildID discord.GuildID) (s *state.State, id int) {
	shard, id := bot.ShardManager.FromGuildID(guildID)
	return shard.(*state.State), id
}

