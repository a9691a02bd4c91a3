package listingfetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/Newichka/autoBro/internal/contextkeys"
	"github.com/Newichka/autoBro/internal/core/domain"
	"github.com/Newichka/autoBro/internal/core/port"
)

const (
	defaultTimeout = 60 * time.Second
	detailsFlag    = "--details"
	maxStderrInErr = 512
)

type Config struct {
	Command    string // например node
	ScriptPath string
	Timeout    time.Duration
}

// CommandFetcher запускает внешний скрипт парсера и читает JSON из его stdout
type CommandFetcher struct {
	command string
	script  string
	timeout time.Duration
}

var _ port.ListingFetcherPort = (*CommandFetcher)(nil)

func NewCommandFetcher(cfg Config) (*CommandFetcher, error) {
	if strings.TrimSpace(cfg.Command) == "" {
		return nil, fmt.Errorf("parser command is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &CommandFetcher{command: cfg.Command, script: cfg.ScriptPath, timeout: timeout}, nil
}

func (f *CommandFetcher) FetchListings(ctx context.Context, url string) ([]domain.ParsedListing, error) {
	out, err := f.run(ctx, url, false)
	if err != nil {
		return nil, err
	}

	var dtos []listingDTO
	if err := decodeJSON(out, &dtos); err != nil {
		return nil, fmt.Errorf("parser returned malformed listings: %w", err)
	}

	listings := make([]domain.ParsedListing, 0, len(dtos))
	for _, d := range dtos {
		listings = append(listings, d.toDomain())
	}
	return listings, nil
}

func (f *CommandFetcher) FetchDetail(ctx context.Context, url string) (*domain.ParsedListing, error) {
	out, err := f.run(ctx, url, true)
	if err != nil {
		return nil, err
	}

	var dto listingDTO
	if err := decodeJSON(out, &dto); err != nil {
		return nil, fmt.Errorf("parser returned malformed listing: %w", err)
	}
	listing := dto.toDomain()
	if listing.URL == "" {
		listing.URL = url
	}
	return &listing, nil
}

func (f *CommandFetcher) run(ctx context.Context, url string, details bool) ([]byte, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CommandFetcher",
		"url":       url,
		"details":   details,
	})

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	args := make([]string, 0, 3)
	if f.script != "" {
		args = append(args, f.script)
	}
	args = append(args, url)
	if details {
		args = append(args, detailsFlag)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	started := time.Now()
	logger.Debug("Running parser", port.Fields{"command": f.command})
	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			logger.Warn("Parser timed out", port.Fields{"timeout": f.timeout.String()})
			return nil, fmt.Errorf("parser timed out after %s", f.timeout)
		}
		return nil, ctxErr
	}
	if err != nil {
		logger.Error("Parser failed", err, port.Fields{"stderr": truncate(stderr.String())})
		return nil, fmt.Errorf("parser failed: %w: %s", err, truncate(stderr.String()))
	}

	logger.Debug("Parser finished", port.Fields{"duration_ms": time.Since(started).Milliseconds(), "bytes": stdout.Len()})
	return stdout.Bytes(), nil
}

// decodeJSON пропускает служебные строки скрипта до первой строки с JSON
func decodeJSON(out []byte, v interface{}) error {
	lines := bytes.SplitAfter(out, []byte("\n"))
	for i, line := range lines {
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
			return json.NewDecoder(bytes.NewReader(bytes.Join(lines[i:], nil))).Decode(v)
		}
	}
	return fmt.Errorf("no JSON in parser output")
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderrInErr {
		return s[:maxStderrInErr] + "..."
	}
	return s
}
