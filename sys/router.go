package sys

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/samber/lo"
)

// ErrAlreadyReplied is returned when a handler tries to answer an interaction twice.
var ErrAlreadyReplied = errors.New("interaction already replied")

// CommandHandler answers one slash command. It must reply exactly once.
type CommandHandler func(s Session, i Interaction) error

// Router maps command names to handlers. A zero-value Router is ready to use.
type Router struct {
	mu       sync.RWMutex
	commands []discord.ApplicationCommandCreate
	handlers map[string]CommandHandler
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{}
}

// Register adds a command descriptor and its handler. Registering the same
// name twice panics, since the platform would reject the duplicate anyway.
func (r *Router) Register(cmd discord.SlashCommandCreate, handler CommandHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handlers == nil {
		r.handlers = make(map[string]CommandHandler, 4)
	}
	if _, ok := r.handlers[cmd.Name]; ok {
		panic("router: command " + cmd.Name + " already registered")
	}
	r.commands = append(r.commands, cmd)
	r.handlers[cmd.Name] = handler
}

// Handler returns the handler registered under name.
func (r *Router) Handler(name string) (CommandHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Commands returns the descriptors in registration order.
func (r *Router) Commands() []discord.ApplicationCommandCreate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]discord.ApplicationCommandCreate(nil), r.commands...)
}

// CommandNames returns the registered names in registration order.
func (r *Router) CommandNames() []string {
	return lo.Map(r.Commands(), func(c discord.ApplicationCommandCreate, _ int) string {
		return c.CommandName()
	})
}

// Dispatch runs the handler for the interaction's command. It always leaves
// the interaction with exactly one reply: unknown commands get a fixed reply,
// and a failed, panicking or silent handler gets an ephemeral fallback unless
// it already replied.
func (r *Router) Dispatch(s Session, i Interaction) {
	guard := &replyGuard{Interaction: i}
	name := i.CommandName()

	h, ok := r.Handler(name)
	if !ok {
		LogRouter(MsgRouterUnknownCommand, name)
		if err := guard.CreateMessage(discord.NewMessageCreate().
			WithContent(ErrRouterUnknownCommand)); err != nil {
			LogError(MsgRouterFallbackFail, name, err)
		}
		return
	}

	err := runHandler(h, s, guard)
	switch {
	case err != nil:
		LogError(MsgRouterHandlerError, name, err)
	case !guard.Replied():
		LogWarn(MsgRouterNoReply, name)
	}

	if guard.Replied() {
		return
	}
	if err := guard.CreateMessage(ErrorReply(ErrRouterFallback)); err != nil {
		LogError(MsgRouterFallbackFail, name, err)
	}
}

func runHandler(h CommandHandler, s Session, i Interaction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			LogDebug("%s", debug.Stack())
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(s, i)
}

// ErrorReply builds an ephemeral plain-text reply.
func ErrorReply(content string) discord.MessageCreate {
	return discord.NewMessageCreate().
		WithContent(content).
		WithEphemeral(true)
}

// replyGuard records whether the wrapped interaction has been answered.
type replyGuard struct {
	Interaction
	mu      sync.Mutex
	replied bool
}

func (g *replyGuard) CreateMessage(msg discord.MessageCreate) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.replied {
		return ErrAlreadyReplied
	}
	if err := g.Interaction.CreateMessage(msg); err != nil {
		return err
	}
	g.replied = true
	return nil
}

func (g *replyGuard) Replied() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.replied
}

// --- Default registry ---

var defaultRouter = NewRouter()

// DefaultRouter is the router command packages register into from init.
func DefaultRouter() *Router {
	return defaultRouter
}

// RegisterCommand adds a slash command to the default router.
func RegisterCommand(cmd discord.SlashCommandCreate, handler CommandHandler) {
	defaultRouter.Register(cmd, handler)
}
