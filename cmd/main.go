package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/brettbedarf/imgnav"
	"github.com/brettbedarf/imgnav/config"
	"github.com/brettbedarf/imgnav/events"
	"github.com/brettbedarf/imgnav/internal/util"
	"github.com/brettbedarf/imgnav/navigator"
	"github.com/brettbedarf/imgnav/server"
	"github.com/brettbedarf/imgnav/volume"
)

// stringList collects a repeatable string flag
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	// Parse command line arguments
	var (
		configPath string
		verbose    int
		addr       string
		volumes    stringList
	)
	flag.StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	flag.StringVar(&configPath, "c", "", "--config (shorthand)")
	flag.StringVar(&addr, "addr", "", "Listen address of the shell bridge (Default "+config.DefaultListenAddr+")")
	flag.StringVar(&addr, "a", "", "--addr (shorthand)")
	flag.Var(&volumes, "volume", "Volume root to probe instead of the platform default. Repeatable.")
	flag.Var(&volumes, "r", "--volume (shorthand)")
	flag.IntVar(&verbose, "verbose", config.InfoVerbose, "Log verbosity level between 1 (error) and 5 (trace). Default is 3 (info).")
	flag.IntVar(&verbose, "v", config.InfoVerbose, "--verbose (shorthand)")
	flag.Parse()

	// Only flags given explicitly override file and environment values
	cli := &config.ConfigOverride{}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "verbose", "v":
			cli.LogLvl = util.Pointer(verbose)
		case "addr", "a":
			cli.ListenAddr = util.Pointer(addr)
		case "volume", "r":
			cli.VolumeCandidates = util.Pointer([]string(volumes))
		}
	})

	// Initialize logger
	util.InitializeLogger(util.VerbosityToLevel(verbose))
	logger := util.GetLogger("main")

	cfg, err := config.Load(configPath, cli)
	if err != nil {
		logger.Fatal().Err(err).Str("config", configPath).Msg("Failed to load configuration")
	}
	util.InitializeLogger(cfg.LogLvl)
	logger = util.GetLogger("main")
	logger.Info().Str("addr", cfg.ListenAddr).Strs("candidates", cfg.VolumeCandidates).
		Str("max_resource", config.HumanSize(cfg.MaxResourceBytes)).Msg("imgnav initializing")

	// Navigation state: probe, select the first volume and list it
	bus := events.NewBus(cfg.EventBuffer)
	nav := navigator.New(cfg, volume.NewProber(cfg.VolumeCandidates), bus)
	if _, err := nav.ChangeVolume(0); err != nil {
		if !errors.Is(err, imgnav.ErrNoVolumes) {
			logger.Fatal().Err(err).Msg("Failed to select initial volume")
		}
		logger.Warn().Msg("No volumes found")
	} else if _, err := nav.ScanDirectory(); err != nil {
		logger.Error().Err(err).Msg("Initial scan failed")
	}
	boot := nav.Boot()
	logger.Info().Int("volumes", len(boot.Drives)).Msg("Volumes probed")

	// Serve
	srv := server.New(cfg, nav, bus)
	done := srv.ServeAsync(cfg.ListenAddr)

	// Setup signal handling for graceful shutdown
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-done:
		if err != nil {
			logger.Fatal().Err(err).Msg("Server failed")
		}
		return
	case sig := <-signalChan:
		logger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	} else {
		logger.Info().Msg("Server stopped")
	}
}
