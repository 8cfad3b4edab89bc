package sys

import (
	"errors"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/samber/lo"
)

// ErrGuildNotCached is returned when a handler needs a guild the cache has not seen yet.
var ErrGuildNotCached = errors.New("guild is not cached")

// ChannelRef identifies a guild channel resolved from the cache.
type ChannelRef struct {
	ID      snowflake.ID
	GuildID snowflake.ID
	Name    string
}

// Session is the live connection handle every handler receives. It exposes
// only the reads and writes the handlers need, so tests can substitute it.
type Session interface {
	Guild(guildID snowflake.ID) (discord.Guild, bool)
	GuildCount() int
	UserCount() int
	Latency() time.Duration
	Channel(guildID, channelID snowflake.ID) (ChannelRef, bool)
	SelfPermissions(channel ChannelRef) discord.Permissions
	CreateMessage(channelID snowflake.ID, msg discord.MessageCreate) error
}

// Interaction is a single slash command invocation. It must be replied to once.
type Interaction interface {
	CommandName() string
	User() discord.User
	GuildID() *snowflake.ID
	CreateMessage(msg discord.MessageCreate) error
}

// --- disgo adapters ---

type clientSession struct {
	client *bot.Client
}

// NewSession wraps a disgo client.
func NewSession(client *bot.Client) Session {
	return &clientSession{client: client}
}

func (s *clientSession) Guild(guildID snowflake.ID) (discord.Guild, bool) {
	return s.client.Caches.Guild(guildID)
}

func (s *clientSession) GuildCount() int {
	count := 0
	for range s.client.Caches.Guilds() {
		count++
	}
	return count
}

func (s *clientSession) UserCount() int {
	var ids []snowflake.ID
	for guild := range s.client.Caches.Guilds() {
		for member := range s.client.Caches.Members(guild.ID) {
			ids = append(ids, member.User.ID)
		}
	}
	return len(lo.Uniq(ids))
}

func (s *clientSession) Latency() time.Duration {
	if s.client.Gateway == nil {
		return 0
	}
	return s.client.Gateway.Latency()
}

func (s *clientSession) Channel(guildID, channelID snowflake.ID) (ChannelRef, bool) {
	ch, ok := s.client.Caches.Channel(channelID)
	if !ok || ch.GuildID() != guildID {
		return ChannelRef{}, false
	}
	return ChannelRef{ID: ch.ID(), GuildID: ch.GuildID(), Name: ch.Name()}, true
}

// SelfPermissions resolves the bot's own member in the channel's guild,
// which is keyed by the bot user ID rather than the application ID.
func (s *clientSession) SelfPermissions(ref ChannelRef) discord.Permissions {
	ch, ok := s.client.Caches.Channel(ref.ID)
	if !ok {
		return 0
	}
	self, ok := s.client.Caches.SelfMember(ref.GuildID)
	if !ok {
		return 0
	}
	return s.client.Caches.MemberPermissionsInChannel(ch, self)
}

func (s *clientSession) CreateMessage(channelID snowflake.ID, msg discord.MessageCreate) error {
	_, err := s.client.Rest.CreateMessage(channelID, msg)
	return err
}

type commandInteraction struct {
	event *events.ApplicationCommandInteractionCreate
}

// NewInteraction wraps a disgo application command event.
func NewInteraction(event *events.ApplicationCommandInteractionCreate) Interaction {
	return &commandInteraction{event: event}
}

func (i *commandInteraction) CommandName() string {
	return i.event.Data.CommandName()
}

func (i *commandInteraction) User() discord.User {
	return i.event.User()
}

func (i *commandInteraction) GuildID() *snowflake.ID {
	return i.event.GuildID()
}

func (i *commandInteraction) CreateMessage(msg discord.MessageCreate) error {
	return i.event.CreateMessage(msg)
}
