// Package token resolves the 1Password service account token.
//
// Two providers exist: one reads the value captured from the environment at
// startup, the other interactively prompts for a token file path. Commands
// pick a provider by flag; the rest of the pipeline is identical.
package token

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Provider yields a service account token.
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// EnvProvider returns a token that was already resolved from the
// environment. An empty value is not an error here; the fetcher reports the
// missing credential before invoking anything.
type EnvProvider struct {
	Value string
}

// Token implements Provider.
func (p EnvProvider) Token(ctx context.Context) (string, error) {
	return strings.TrimSpace(p.Value), nil
}

// FileProvider prompts for the path to a token file and reads its trimmed
// contents. A path that does not resolve to a file aborts the run, unlike
// fetch failures which degrade to an empty result.
type FileProvider struct {
	In  io.Reader
	Out io.Writer
}

// Token implements Provider.
func (p FileProvider) Token(ctx context.Context) (string, error) {
	in := p.In
	if in == nil {
		in = os.Stdin
	}
	out := p.Out
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprint(out, "Enter the path to your 1Password Service Account Token file: ")

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read token path: %w", err)
	}

	path := strings.TrimSpace(line)
	if path == "" {
		return "", fmt.Errorf("no token file path given")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("token file not found at %s", path)
		}
		return "", fmt.Errorf("stat token file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("token path %s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}

	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return "", fmt.Errorf("token file %s is empty", path)
	}

	fmt.Fprintln(out, "Token loaded from file.")
	return tok, nil
}
