package sys

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	// Style definitions
	debugColor     = color.New(color.FgHiBlue)
	infoColor      = color.New(color.FgHiBlack)
	warnColor      = color.New(color.FgHiYellow)
	errorColor     = color.New(color.FgHiRed)
	fatalColor     = color.New(color.FgHiRed, color.Bold)
	loaderColor    = color.New(color.FgHiBlack)
	welcomeColor   = color.New(color.FgHiMagenta)
	keepAliveColor = color.New(color.FgHiGreen)
	routerColor    = color.New(color.FgHiCyan)

	IsSilent = false

	// Global default logger
	Logger *slog.Logger

	logMu sync.Mutex

	// exit is swapped in tests so LogFatal can be observed.
	exit = os.Exit
)

// LevelFatal sits above slog.LevelError and is only emitted by LogFatal.
const LevelFatal = slog.LevelError + 4

func init() {
	// Initialize with a default handler immediately (Stdout only)
	InitLogger(false)
}

// InitLogger initializes the global structured logger
func InitLogger(silent bool) {
	logMu.Lock()
	defer logMu.Unlock()

	IsSilent = silent
	level := slog.LevelInfo
	if strings.ToLower(os.Getenv("DEBUG")) == "true" {
		level = slog.LevelDebug
	}

	handler := NewBotLogHandler(os.Stdout, &BotLogHandlerOptions{
		Silent: IsSilent,
		Level:  level,
	})
	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

func SetSilentMode(silent bool) {
	InitLogger(silent)
}

// --- Log Functions ---

func LogInfo(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...))
}

func LogWarn(format string, v ...any) {
	slog.Warn(fmt.Sprintf(format, v...))
}

func LogError(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...))
}

func LogDebug(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...))
}

func LogFatal(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	slog.Log(context.Background(), LevelFatal, msg)
	exit(1)
}

func LogLoader(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "loader"))
}

func LogWelcome(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "welcome"))
}

// LogWelcomeWarn keeps the component tag while raising the level, so guard
// failures stand out from the routine welcome log lines.
func LogWelcomeWarn(format string, v ...any) {
	slog.Warn(fmt.Sprintf(format, v...), slog.String("component", "welcome"))
}

func LogKeepAlive(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "keepalive"))
}

func LogRouter(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "router"))
}

// --- Custom Slog Handler ---

type BotLogHandlerOptions struct {
	Silent bool
	Level  slog.Leveler
}

type BotLogHandler struct {
	w     io.Writer
	opts  *BotLogHandlerOptions
	mu    *sync.Mutex
	attrs []slog.Attr
	now   func() time.Time
}

func NewBotLogHandler(w io.Writer, opts *BotLogHandlerOptions) *BotLogHandler {
	if opts == nil {
		opts = &BotLogHandlerOptions{Level: slog.LevelInfo}
	}
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	return &BotLogHandler{
		w:    w,
		opts: opts,
		mu:   &sync.Mutex{},
		now:  time.Now,
	}
}

func (h *BotLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	// Silent mode still lets fatal lines through before the process exits.
	if h.opts.Silent {
		return level >= LevelFatal
	}
	return level >= h.opts.Level.Level()
}

func (h *BotLogHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.opts.Silent && r.Level < LevelFatal {
		return nil
	}

	timeStr := h.now().Format("15:04:05")
	var levelStr string
	var levelColor *color.Color

	switch {
	case r.Level >= LevelFatal:
		levelStr = "FATAL"
		levelColor = fatalColor
	case r.Level >= slog.LevelError:
		levelStr = "ERROR"
		levelColor = errorColor
	case r.Level >= slog.LevelWarn:
		levelStr = "WARN"
		levelColor = warnColor
	case r.Level >= slog.LevelInfo:
		levelStr = "INFO"
		levelColor = infoColor
	default:
		levelStr = "DEBUG"
		levelColor = debugColor
	}

	// Component may come from the record or from a logger built with With().
	component := ""
	var errAttr string
	visit := func(a slog.Attr) bool {
		switch a.Key {
		case "component":
			component = strings.ToUpper(a.Value.String())
		case "err", "error":
			errAttr = a.Value.String()
		}
		return true
	}
	for _, a := range h.attrs {
		visit(a)
	}
	r.Attrs(visit)

	msg := r.Message
	if errAttr != "" {
		msg = fmt.Sprintf("%s: %s", msg, errAttr)
	}

	// Output: 15:04:05 [INFO] [COMPONENT] Message
	fmt.Fprintf(h.w, "%s", timeStr)

	if component != "" {
		if levelStr != "INFO" {
			fmt.Fprintf(h.w, " %s", levelColor.Sprintf("[%s]", levelStr))
		}
		compColor := getComponentColor(component)
		fmt.Fprintf(h.w, " %s\n", compColor.Sprintf("[%s] %s", component, msg))
	} else {
		fmt.Fprintf(h.w, " %s\n", levelColor.Sprintf("[%s] %s", levelStr, msg))
	}

	return nil
}

func (h *BotLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &BotLogHandler{w: h.w, opts: h.opts, mu: h.mu, attrs: merged, now: h.now}
}

func (h *BotLogHandler) WithGroup(name string) slog.Handler { return h }

func getComponentColor(name string) *color.Color {
	switch name {
	case "LOADER":
		return loaderColor
	case "WELCOME":
		return welcomeColor
	case "KEEPALIVE":
		return keepAliveColor
	case "ROUTER":
		return routerColor
	default:
		return color.New(color.FgCyan)
	}
}

// @config
const (
	MsgConfigFailedToLoad = "Failed to load config: %v"
	MsgConfigMissingToken = "Missing DISCORD_TOKEN in environment variables!"
)

// @loader
const (
	MsgLoaderRegistering        = "Registering slash commands..."
	MsgLoaderGuildRegister      = "Registering commands to guild: %s"
	MsgLoaderGuildRegistered    = "Registered guild command: %s"
	MsgLoaderGuildRegisterFail  = "failed to register guild commands: %w"
	MsgLoaderRegisteringGlobal  = "Registering commands globally..."
	MsgLoaderGlobalRegistered   = "Registered global command: %s"
	MsgLoaderRegisterGlobalFail = "failed to register global commands: %w"
	MsgLoaderRegistered         = "Successfully registered slash commands!"
	MsgLoaderAvailable          = "Available commands: %s"
	MsgLoaderSkipped            = "Skipping command registration as requested."
	MsgLoaderPanicRecovered     = "Recovered from panic: %v"
)

// @bot
const (
	MsgBotStarting     = "Starting %s..."
	MsgBotOnline       = "%s is now online!"
	MsgBotGuildCount   = "Connected to %d servers"
	MsgBotShutdown     = "Shutting down %s..."
	MsgBotRegisterFail = "Error registering slash commands: %v"
)

// @router
const (
	MsgRouterHandlerError   = "Error handling slash command /%s: %v"
	MsgRouterNoReply        = "Handler for /%s returned without replying"
	MsgRouterFallbackFail   = "Failed to send fallback reply for /%s: %v"
	MsgRouterUnknownCommand = "Unknown command received: /%s"

	ErrRouterUnknownCommand = "❌ Unknown command!"
	ErrRouterFallback       = "❌ An error occurred while processing this command!"
)

// @home
const (
	MsgPingReply       = "🏓 Pong!"
	MsgHelloReply      = "👋 Hello, %s!"
	ErrServerGuildOnly = "❌ This command can only be used in a server!"
)

// @welcome
const (
	MsgWelcomeChannelMissing = "Welcome channel not found in %s"
	MsgWelcomeNoPermissions  = "No permissions to send messages in welcome channel in %s"
	MsgWelcomeSent           = "Welcome message sent for %s"
	MsgWelcomeSendFail       = "Error sending welcome message: %v"
)

// @keepalive
const (
	MsgKeepAliveStarted  = "Keep-alive server started on port %s"
	MsgKeepAliveStopped  = "Keep-alive server stopped"
	MsgKeepAliveServeErr = "Keep-alive server error: %v"
	MsgKeepAliveBody     = "Discord Bot is running!"
)
