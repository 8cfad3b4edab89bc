package home

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/fatih/color"
	"github.com/leeineian/hearth/sys"
)

type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (l *logBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Write(p)
}

func (l *logBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.String()
}

func (l *logBuffer) Lines() []string {
	s := strings.TrimSuffix(l.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func captureLogs(t *testing.T) *logBuffer {
	t.Helper()
	prevNoColor := color.NoColor
	color.NoColor = true
	prev := slog.Default()

	buf := &logBuffer{}
	slog.SetDefault(slog.New(sys.NewBotLogHandler(buf, &sys.BotLogHandlerOptions{Level: slog.LevelInfo})))

	t.Cleanup(func() {
		slog.SetDefault(prev)
		color.NoColor = prevNoColor
	})
	return buf
}

type sentMessage struct {
	channelID snowflake.ID
	msg       discord.MessageCreate
}

type fakeSession struct {
	guilds     map[snowflake.ID]discord.Guild
	channels   map[snowflake.ID]sys.ChannelRef
	perms      discord.Permissions
	guildCount int
	userCount  int
	latency    time.Duration
	sendErr    error
	panicOn    string

	guildLookups int
	sent         []sentMessage
}

func (f *fakeSession) Guild(id snowflake.ID) (discord.Guild, bool) {
	f.guildLookups++
	g, ok := f.guilds[id]
	return g, ok
}

func (f *fakeSession) GuildCount() int        { return f.guildCount }
func (f *fakeSession) UserCount() int         { return f.userCount }
func (f *fakeSession) Latency() time.Duration { return f.latency }

func (f *fakeSession) Channel(guildID, channelID snowflake.ID) (sys.ChannelRef, bool) {
	if f.panicOn == "channel" {
		panic("cache poisoned")
	}
	ch, ok := f.channels[channelID]
	if !ok || ch.GuildID != guildID {
		return sys.ChannelRef{}, false
	}
	return ch, true
}

func (f *fakeSession) SelfPermissions(sys.ChannelRef) discord.Permissions { return f.perms }

func (f *fakeSession) CreateMessage(channelID snowflake.ID, msg discord.MessageCreate) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMessage{channelID: channelID, msg: msg})
	return nil
}

type fakeInteraction struct {
	name    string
	user    discord.User
	guildID *snowflake.ID

	sent []discord.MessageCreate
}

func (f *fakeInteraction) CommandName() string    { return f.name }
func (f *fakeInteraction) User() discord.User     { return f.user }
func (f *fakeInteraction) GuildID() *snowflake.ID { return f.guildID }

func (f *fakeInteraction) CreateMessage(msg discord.MessageCreate) error {
	f.sent = append(f.sent, msg)
	return nil
}

func isEphemeral(msg discord.MessageCreate) bool {
	return msg.Flags.Has(discord.MessageFlagEphemeral)
}
