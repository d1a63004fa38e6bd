package daemonrun

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"log/slog"

	"docsort/internal/config"
	"docsort/internal/daemon"
	"docsort/internal/ipc"
	"docsort/internal/journal"
	"docsort/internal/logging"
	"docsort/internal/msgmail"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run starts the docsort daemon runtime loop and blocks until interrupted.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger, err := newLogger(cfg, opts)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logEnvironmentSnapshot(logger, cfg)

	pidPath := filepath.Join(cfg.Paths.LogDir, "docsortd.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := journal.Open(cfg)
	if err != nil {
		logger.Error("open move journal", logging.Error(err))
		return err
	}

	d, err := daemon.New(cfg, store, msgmail.NewReader(), logger)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	socketPath := SocketPath(cfg)
	ipcServer, err := ipc.NewServer(signalCtx, socketPath, d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()

	if err := d.Start(signalCtx); err != nil {
		logger.Error("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
			logging.String(logging.FieldErrorHint, "check that paths.watch_dir exists and is a directory"),
		)
		return err
	}

	<-signalCtx.Done()
	logger.Info("docsort daemon shutting down")
	return nil
}

// SocketPath returns the control socket location for a config.
func SocketPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.LogDir, "docsortd.sock")
}

func newLogger(cfg *config.Config, opts Options) (*slog.Logger, error) {
	if opts.LogLevel == "" {
		return logging.NewFromConfig(cfg)
	}
	clone := *cfg
	clone.Logging.Level = opts.LogLevel
	return logging.NewFromConfig(&clone)
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

// logEnvironmentSnapshot records the one-time startup diagnostics: watch root
// state and a write probe against it.
func logEnvironmentSnapshot(logger *slog.Logger, cfg *config.Config) {
	info, statErr := os.Stat(cfg.Paths.WatchDir)
	rootExists := statErr == nil && info.IsDir()

	logger.Info("environment snapshot",
		logging.String(logging.FieldEventType, "environment_snapshot"),
		logging.String("watch_root", cfg.Paths.WatchDir),
		logging.Bool("watch_root_exists", rootExists),
		logging.Bool("watch_root_writable", rootExists && probeWritable(cfg.Paths.WatchDir)),
		logging.String("journal_path", filepath.Join(cfg.Paths.LogDir, "journal.db")),
	)
}

func probeWritable(dir string) bool {
	probe, err := os.CreateTemp(dir, ".docsort-probe-*")
	if err != nil {
		return false
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return true
}
