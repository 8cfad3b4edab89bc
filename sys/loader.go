package sys

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"
)

// safeGo runs a function in a new goroutine with panic recovery
func safeGo(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				LogError(MsgLoaderPanicRecovered, r)
				LogDebug("%s", debug.Stack())
			}
		}()
		f()
	}()
}

// MemberJoinHandler reacts to a member joining a guild.
type MemberJoinHandler func(s Session, guildID snowflake.ID, member discord.Member)

// CommandRegistrar is the part of the REST client that replaces command sets.
type CommandRegistrar interface {
	SetGlobalCommands(applicationID snowflake.ID, commandCreates []discord.ApplicationCommandCreate, opts ...rest.RequestOpt) ([]discord.ApplicationCommand, error)
	SetGuildCommands(applicationID snowflake.ID, guildID snowflake.ID, commandCreates []discord.ApplicationCommandCreate, opts ...rest.RequestOpt) ([]discord.ApplicationCommand, error)
}

// Bot ties the disgo client to the router and the join handlers.
type Bot struct {
	Client  *bot.Client
	Router  *Router
	Session Session

	cfg          *Config
	skipReg      bool
	registerOnce sync.Once
	joinHandlers []MemberJoinHandler
}

// CreateClient creates and configures a disgo client whose listeners feed the returned Bot.
func CreateClient(cfg *Config, router *Router, skipReg bool, joins ...MemberJoinHandler) (*Bot, error) {
	b := &Bot{
		Router:       router,
		cfg:          cfg,
		skipReg:      skipReg,
		joinHandlers: joins,
	}

	client, err := disgo.New(cfg.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMembers,
			),
			gateway.WithPresenceOpts(
				gateway.WithOnlineStatus(discord.OnlineStatusOnline),
			),
		),
		bot.WithCacheConfigOpts(
			cache.WithCaches(cache.FlagGuilds, cache.FlagMembers, cache.FlagRoles, cache.FlagChannels),
		),
		bot.WithEventListenerFunc(b.onReady),
		bot.WithEventListenerFunc(b.onGuildMemberJoin),
		bot.WithEventListenerFunc(b.onApplicationCommandInteraction),
		bot.WithLogger(slog.Default()),
		bot.WithRestClientConfigOpts(
			rest.WithHTTPClient(&http.Client{
				Timeout: 30 * time.Second,
			}),
		),
	)
	if err != nil {
		return nil, err
	}

	b.Client = client
	b.Session = NewSession(client)
	return b, nil
}

// Open connects to the gateway.
func (b *Bot) Open(ctx context.Context) error {
	return b.Client.OpenGateway(ctx)
}

// Close disconnects from the gateway and stops the REST client.
func (b *Bot) Close(ctx context.Context) {
	b.Client.Close(ctx)
}

// --- Command Syncing Logic ---

// RegisterCommands bulk-replaces the application's command set. With a guild
// ID the set is written to that guild only, which propagates instantly and is
// meant for development.
func RegisterCommands(registrar CommandRegistrar, applicationID snowflake.ID, guildID *snowflake.ID, cmds []discord.ApplicationCommandCreate) error {
	LogLoader(MsgLoaderRegistering)

	if guildID != nil {
		LogLoader(MsgLoaderGuildRegister, guildID.String())
		created, err := registrar.SetGuildCommands(applicationID, *guildID, cmds)
		if err != nil {
			return fmt.Errorf(MsgLoaderGuildRegisterFail, err)
		}
		for _, cmd := range created {
			LogLoader(MsgLoaderGuildRegistered, cmd.Name())
		}
	} else {
		LogLoader(MsgLoaderRegisteringGlobal)
		created, err := registrar.SetGlobalCommands(applicationID, cmds)
		if err != nil {
			return fmt.Errorf(MsgLoaderRegisterGlobalFail, err)
		}
		for _, cmd := range created {
			LogLoader(MsgLoaderGlobalRegistered, cmd.Name())
		}
	}

	names := lo.Map(cmds, func(c discord.ApplicationCommandCreate, _ int) string {
		return "/" + c.CommandName()
	})
	LogLoader(MsgLoaderRegistered)
	LogLoader(MsgLoaderAvailable, strings.Join(names, ", "))
	return nil
}

// syncCommands registers the router's commands once per process. Ready fires
// again after a full reconnect; the command set has not changed by then.
func (b *Bot) syncCommands(registrar CommandRegistrar, applicationID snowflake.ID) {
	if b.skipReg {
		LogLoader(MsgLoaderSkipped)
		return
	}
	b.registerOnce.Do(func() {
		var guildID *snowflake.ID
		if id, ok := b.cfg.GuildSnowflake(); ok {
			guildID = &id
		}
		if err := RegisterCommands(registrar, applicationID, guildID, b.Router.Commands()); err != nil {
			LogError(MsgBotRegisterFail, err)
		}
	})
}

// --- Event Handlers ---

func (b *Bot) onReady(event *events.Ready) {
	client := event.Client()
	LogInfo(MsgBotOnline, event.User.Tag())
	LogInfo(MsgBotGuildCount, len(event.Guilds))

	safeGo(func() { b.syncCommands(client.Rest, client.ApplicationID) })
}

func (b *Bot) onGuildMemberJoin(event *events.GuildMemberJoin) {
	for _, h := range b.joinHandlers {
		safeGo(func() { h(b.Session, event.GuildID, event.Member) })
	}
}

func (b *Bot) onApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	// Only chat input commands are routed; user and message context menu
	// commands arrive on the same event.
	if event.Data.Type() != discord.ApplicationCommandTypeSlash {
		return
	}
	interaction := NewInteraction(event)
	safeGo(func() { b.Router.Dispatch(b.Session, interaction) })
}
