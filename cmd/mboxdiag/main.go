package main

import (
	"flag"

	"github.com/danmuck/mboxctl/internal/backend"
	"github.com/danmuck/mboxctl/internal/config"
	"github.com/danmuck/mboxctl/internal/diag"
	"github.com/danmuck/mboxctl/internal/firmware"
	"github.com/danmuck/mboxctl/internal/mailbox"
	"github.com/danmuck/mboxctl/internal/observability"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "path to config.toml")
		simMode = flag.Bool("sim", false, "serve the simulated firmware peer")
		addr    = flag.String("addr", "", "listen address override")
	)
	flag.Parse()

	logger := observability.InitLogger("mboxdiag")

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("configuration")
		}
		cfg = loaded
	}
	listen := cfg.DiagAddr
	if *addr != "" {
		listen = *addr
	}

	regs, alloc, cleanup, err := backend.Open(cfg, *simMode)
	if err != nil {
		logger.Fatal().Err(err).Msg("mailbox backend")
	}
	defer cleanup()

	engine := mailbox.NewEngine(regs, alloc, cfg.Engine())
	engine.SetLogger(logger)
	fw := firmware.NewClient(engine)

	srv := diag.NewServer("mboxdiag", fw, cfg.CorsOrigins)
	logger.Info().Str("addr", listen).Msg("diagnostics server listening")
	if err := srv.Run(listen); err != nil {
		logger.Fatal().Err(err).Msg("diagnostics server")
	}
}
