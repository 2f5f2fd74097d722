// Command ribophase scores ribosome profiling coverage over an ORF index and
// writes the ORFs that show three-nucleotide periodicity.
//
// Configuration comes from defaults, an optional YAML file named by
// RIBOPHASE_CONFIG and RIBOPHASE_* environment variables.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/profile"

	app "github.com/okian/ribophase/internal/app"
	"github.com/okian/ribophase/internal/config"
	"github.com/okian/ribophase/pkg/logger"
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := run(ctx)
	stop()
	if err != nil {
		logger.Get().Error(ctx, "detection run failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if err := logger.InitWithWriter(os.Stderr, cfg.LogFormat); err != nil {
		return err
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if p := startProfile(cfg); p != nil {
		loggerInstance.Info(ctx, "profiling enabled", logger.String("mode", cfg.Profile), logger.String("dir", cfg.ProfileDir))
		defer p.Stop()
	}

	svc := app.New(cfg, app.WithLogger(loggerInstance.Named("service")))
	_, err = svc.Run(ctx)
	return err
}

// startProfile starts the configured profiler, or returns nil when
// profiling is off.
func startProfile(cfg *config.Config) interface{ Stop() } {
	var mode func(*profile.Profile)
	switch cfg.Profile {
	case config.ProfileCPU:
		mode = profile.CPUProfile
	case config.ProfileMem:
		mode = profile.MemProfile
	default:
		return nil
	}
	return profile.Start(mode, profile.ProfilePath(cfg.ProfileDir), profile.Quiet, profile.NoShutdownHook)
}
