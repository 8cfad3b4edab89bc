package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/leeineian/hearth/home"
	"github.com/leeineian/hearth/sys"
)

func main() {
	silent := flag.Bool("silent", false, "Disable log output except fatal errors")
	skipReg := flag.Bool("skip-reg", false, "Skip command registration")
	flag.Parse()

	if *silent {
		sys.SetSilentMode(true)
	}

	// 1. Configuration. A missing token stops here, before any network use.
	cfg, err := sys.LoadConfig()
	if err != nil {
		if errors.Is(err, sys.ErrMissingToken) {
			sys.LogFatal(sys.MsgConfigMissingToken)
		}
		sys.LogFatal(sys.MsgConfigFailedToLoad, err)
	}

	sys.LogInfo(sys.MsgBotStarting, "hearth")

	// 2. Run bot (blocks until shutdown signal)
	if err := run(cfg, *silent, *skipReg); err != nil {
		sys.LogFatal("%v", err)
	}
}

func run(cfg *sys.Config, silent bool, skipReg bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Keep-alive endpoint
	keepAlive, err := sys.ListenKeepAlive(cfg.Port)
	if err != nil {
		return fmt.Errorf("failed to start keep-alive server: %w", err)
	}
	sys.LogKeepAlive(sys.MsgKeepAliveStarted, cfg.Port)

	serveDone := make(chan struct{})
	go func() {
		defer close(serveDone)
		if err := keepAlive.Serve(ctx); err != nil {
			sys.LogError(sys.MsgKeepAliveServeErr, err)
		}
	}()

	// 2. Discord client
	b, err := sys.CreateClient(cfg, sys.DefaultRouter(), skipReg, home.NewWelcomer(cfg.Welcome).Handle)
	if err != nil {
		stop()
		<-serveDone
		return fmt.Errorf("failed to create Discord client: %w", err)
	}
	defer b.Close(context.Background())

	// 3. Connect to Gateway
	if err := b.Open(ctx); err != nil {
		stop()
		<-serveDone
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	<-ctx.Done()
	if !silent {
		fmt.Fprintln(os.Stdout)
	}

	if self, ok := b.Client.Caches.SelfUser(); ok {
		sys.LogInfo(sys.MsgBotShutdown, self.Username)
	} else {
		sys.LogInfo(sys.MsgBotShutdown, "bot")
	}
	<-serveDone

	return nil
}
