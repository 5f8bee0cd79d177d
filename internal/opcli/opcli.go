// Package opcli invokes the 1Password CLI (`op`) and decodes its output.
//
// The op binary authenticates itself from the OP_SERVICE_ACCOUNT_TOKEN
// environment variable; opteam injects the resolved token into the child
// process environment rather than requiring it to be preset in the shell.
package opcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/oncallops/opteam/internal/config"
	"github.com/oncallops/opteam/internal/team"
)

// ErrNoToken is returned before any process is spawned when no service
// account token is available.
var ErrNoToken = errors.New("service account token is not set")

// runFunc executes a command and returns its stdout. Swappable for tests.
type runFunc func(ctx context.Context, bin string, args []string, env []string) ([]byte, error)

// Client runs op commands on behalf of opteam.
type Client struct {
	bin   string
	token string
	run   runFunc
}

// NewClient creates a client for the given op binary and token.
func NewClient(bin, token string) *Client {
	return &Client{
		bin:   bin,
		token: token,
		run:   runCommand,
	}
}

// ListUsers fetches all team users via `op user list --format json`.
//
// Zero users is a valid, non-error result; every failure (missing token,
// non-zero exit, malformed output) is a distinct error so callers can tell
// "nobody on the team" apart from "fetch failed".
func (c *Client) ListUsers(ctx context.Context) ([]team.User, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(c.token) == "" {
		return nil, ErrNoToken
	}

	env := mergeEnv(os.Environ(), map[string]string{
		config.TokenEnvVar: c.token,
	})

	stdout, err := c.run(ctx, c.bin, []string{"user", "list", "--format", "json"}, env)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", c.bin, err)
	}

	var users []team.User
	if err := json.Unmarshal(stdout, &users); err != nil {
		return nil, fmt.Errorf("parse %s output: %w", c.bin, err)
	}

	return users, nil
}

// runCommand executes the binary and captures stdout. On non-zero exit the
// returned error carries the captured stderr.
func runCommand(ctx context.Context, bin string, args []string, env []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}

	return stdout.Bytes(), nil
}

// mergeEnv overlays vars onto an inherited environment, last one wins.
func mergeEnv(inherited []string, vars map[string]string) []string {
	envMap := make(map[string]string, len(inherited)+len(vars))
	for _, e := range inherited {
		parts := strings.SplitN(e, "=", 2)
		if len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}
	for k, v := range vars {
		envMap[k] = v
	}

	out := make([]string, 0, len(envMap))
	for k, v := range envMap {
		out = append(out, k+"="+v)
	}
	return out
}
