package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"

	"docsort/internal/config"
	"docsort/internal/daemonrun"
	"docsort/internal/ipc"
)

// commandContext carries lazily loaded state shared by the subcommands. The
// config is resolved at most once per invocation regardless of how many
// commands ask for it.
type commandContext struct {
	socketFlag *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(socketFlag, configFlag *string) *commandContext {
	return &commandContext{socketFlag: socketFlag, configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := ""
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}

		cfg, resolvedPath, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if !exists && path == "" {
			// First run against the default location: persist the
			// defaults, best-effort.
			_ = config.CreateSample(resolvedPath)
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// socketPath resolves the daemon control socket: an explicit flag wins,
// otherwise it is derived from the configured log directory.
func (c *commandContext) socketPath() (string, error) {
	if c.socketFlag != nil {
		if override := strings.TrimSpace(*c.socketFlag); override != "" {
			return override, nil
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	return daemonrun.SocketPath(cfg), nil
}

func (c *commandContext) withClient(fn func(*ipc.Client) error) error {
	socket, err := c.socketPath()
	if err != nil {
		return err
	}
	client, err := ipc.Dial(socket)
	if err != nil {
		return wrapDialError(err, socket)
	}
	defer client.Close()
	return fn(client)
}

func wrapDialError(err error, socket string) error {
	switch {
	case errors.Is(err, syscall.ENOENT) || os.IsNotExist(err):
		return fmt.Errorf("connect to daemon: socket %s not found; start the daemon with `docsort run`", socket)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("connect to daemon: socket %s refused the connection; verify the daemon is running", socket)
	default:
		return fmt.Errorf("connect to daemon: %w", err)
	}
}
