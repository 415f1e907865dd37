package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/soyeahso/tubecrew/internal/config"
)

// DefaultCommandTimeout bounds a hook command without its own timeout.
const DefaultCommandTimeout = 10 * time.Second

// CommandHandler runs a shell command with the payload as JSON on stdin.
// A non-zero exit is reported with the command's stderr.
func CommandHandler(entry config.HookEntry) Handler {
	timeout := DefaultCommandTimeout
	if entry.Timeout > 0 {
		timeout = time.Duration(entry.Timeout) * time.Millisecond
	}

	return func(ctx context.Context, p Payload) error {
		input, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding payload: %w", err)
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		cmd := exec.CommandContext(ctx, "sh", "-c", entry.Command)
		cmd.Stdin = bytes.NewReader(input)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return fmt.Errorf("hook %q: %w: %s", entry.Command, err, msg)
			}
			return fmt.Errorf("hook %q: %w", entry.Command, err)
		}
		return nil
	}
}

// eventEntries pairs each event with its configured commands.
func eventEntries(cfg config.HooksConfig) map[string][]config.HookEntry {
	return map[string][]config.HookEntry{
		EventAgentRunStart: cfg.AgentRunStart,
		EventAgentRunEnd:   cfg.AgentRunEnd,
		EventLockToggled:   cfg.LockToggled,
		EventGatewayStart:  cfg.GatewayStart,
		EventGatewayStop:   cfg.GatewayStop,
	}
}

// RegisterCommands registers a CommandHandler for every configured hook and
// returns how many were registered.
func (m *Manager) RegisterCommands(cfg config.HooksConfig) int {
	n := 0
	for event, entries := range eventEntries(cfg) {
		for i, entry := range entries {
			if strings.TrimSpace(entry.Command) == "" {
				continue
			}
			m.On(event, fmt.Sprintf("command:%d", i), CommandHandler(entry))
			n++
		}
	}
	return n
}
