package sys

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/fatih/color"
)

// captureLogs points the default slog logger at a buffer for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	prevNoColor := color.NoColor
	color.NoColor = true

	prev := slog.Default()
	buf := &bytes.Buffer{}
	h := NewBotLogHandler(&syncWriter{w: buf}, &BotLogHandlerOptions{Level: slog.LevelInfo})
	h.now = func() time.Time { return time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC) }
	slog.SetDefault(slog.New(h))

	t.Cleanup(func() {
		slog.SetDefault(prev)
		color.NoColor = prevNoColor
	})
	return buf
}

type syncWriter struct {
	mu sync.Mutex
	w  *bytes.Buffer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type fakeInteraction struct {
	name    string
	user    discord.User
	guildID *snowflake.ID
	sendErr error

	sent []discord.MessageCreate
}

func (f *fakeInteraction) CommandName() string    { return f.name }
func (f *fakeInteraction) User() discord.User     { return f.user }
func (f *fakeInteraction) GuildID() *snowflake.ID { return f.guildID }

func (f *fakeInteraction) CreateMessage(msg discord.MessageCreate) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeSession struct{}

func (fakeSession) Guild(snowflake.ID) (discord.Guild, bool)              { return discord.Guild{}, false }
func (fakeSession) GuildCount() int                                       { return 0 }
func (fakeSession) UserCount() int                                        { return 0 }
func (fakeSession) Latency() time.Duration                                { return 0 }
func (fakeSession) Channel(snowflake.ID, snowflake.ID) (ChannelRef, bool) { return ChannelRef{}, false }
func (fakeSession) SelfPermissions(ChannelRef) discord.Permissions        { return 0 }
func (fakeSession) CreateMessage(snowflake.ID, discord.MessageCreate) error {
	return errors.New("not implemented")
}

type registrarCall struct {
	applicationID snowflake.ID
	guildID       *snowflake.ID
	commands      []discord.ApplicationCommandCreate
}

type fakeRegistrar struct {
	err   error
	calls []registrarCall
}

func (f *fakeRegistrar) SetGlobalCommands(applicationID snowflake.ID, cmds []discord.ApplicationCommandCreate, _ ...rest.RequestOpt) ([]discord.ApplicationCommand, error) {
	f.calls = append(f.calls, registrarCall{applicationID: applicationID, commands: cmds})
	return nil, f.err
}

func (f *fakeRegistrar) SetGuildCommands(applicationID snowflake.ID, guildID snowflake.ID, cmds []discord.ApplicationCommandCreate, _ ...rest.RequestOpt) ([]discord.ApplicationCommand, error) {
	f.calls = append(f.calls, registrarCall{applicationID: applicationID, guildID: &guildID, commands: cmds})
	return nil, f.err
}
