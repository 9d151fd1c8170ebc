// Package extractor wraps the external extraction tool (yt-dlp) behind an
// interface the orchestrator can mock. The input URL is caller-controlled and
// is always passed as a discrete argv element, never through a shell.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/iconidentify/grabba/internal/config"
	"github.com/iconidentify/grabba/internal/domain"
)

// outputStem is the basename the tool writes rendition files under; the
// extension is appended by the tool itself.
const outputStem = "content"

// waitDelay bounds how long we wait for the tool to exit after its context
// is cancelled before force-reaping it.
const waitDelay = 5 * time.Second

// ToolError carries the tool's stderr for server-side logging. Stderr is
// never surfaced to HTTP callers.
type ToolError struct {
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	if e.Stderr != "" {
		return e.Err.Error() + ": " + strings.TrimSpace(e.Stderr)
	}
	return e.Err.Error()
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// YTDLP is the yt-dlp backed Extractor implementation.
type YTDLP struct {
	bin     string
	timeout time.Duration
	logger  *slog.Logger
}

// NewYTDLP resolves the tool binary and creates the extractor. It fails with
// domain.ErrToolNotFound when the binary is not installed.
func NewYTDLP(cfg config.ExtractorConfig, logger *slog.Logger) (*YTDLP, error) {
	bin, err := exec.LookPath(cfg.BinPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrToolNotFound, cfg.BinPath)
	}

	return &YTDLP{
		bin:     bin,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// Metadata runs `yt-dlp -J <url>` and parses the JSON document on stdout.
func (y *YTDLP) Metadata(ctx context.Context, url string) (*RawInfo, error) {
	out, err := y.run(ctx, "-J", url)
	if err != nil {
		return nil, err
	}

	var info RawInfo
	if err := json.Unmarshal(out, &info); err != nil {
		y.logger.Error("extractor produced malformed JSON", "url", url, "error", err)
		return nil, &ToolError{Err: domain.ErrExtractionFailed}
	}
	if err := info.Validate(); err != nil {
		return nil, err
	}

	return &info, nil
}

// Download runs `yt-dlp -f <selector> -o <dir>/content.%(ext)s <url>` and
// returns the path of the file the tool wrote.
func (y *YTDLP) Download(ctx context.Context, url, selector, dir string) (string, error) {
	if selector == "" {
		selector = "best"
	}
	tmpl := filepath.Join(dir, outputStem+".%(ext)s")

	if _, err := y.run(ctx, "-f", selector, "-o", tmpl, url); err != nil {
		return "", err
	}

	return findOutput(dir, outputStem)
}

// DownloadAudio extracts the best audio-only rendition as an mp4 container.
func (y *YTDLP) DownloadAudio(ctx context.Context, url, dir string) (string, error) {
	tmpl := filepath.Join(dir, outputStem+".%(ext)s")

	args := []string{"-f", "ba", "--extract-audio", "--audio-format", "mp4", "-o", tmpl, url}
	if _, err := y.run(ctx, args...); err != nil {
		return "", err
	}

	return findOutput(dir, outputStem)
}

// Thumbnail fetches only the post thumbnail, converted to JPEG.
func (y *YTDLP) Thumbnail(ctx context.Context, url, dir string) (string, error) {
	stem := filepath.Join(dir, "thumbnail")

	args := []string{"--write-thumbnail", "--skip-download", "--convert-thumbnails", "jpg", "-o", stem, url}
	if _, err := y.run(ctx, args...); err != nil {
		return "", err
	}

	path := stem + ".jpg"
	if _, err := os.Stat(path); err != nil {
		return "", domain.ErrOutputMissing
	}
	return path, nil
}

// run executes the tool with a bounded timeout, capturing stdout and stderr.
// On cancellation the whole process group is killed so no orphans linger.
func (y *YTDLP) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, y.bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)
	cmd.Cancel = func() error {
		return terminate(cmd)
	}

	start := time.Now()
	err := cmd.Run()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			y.logger.Warn("extractor timed out",
				"timeout", y.timeout,
				"args", strings.Join(args, " "),
			)
			return nil, domain.ErrExtractionTimeout
		}

		y.logger.Error("extractor failed",
			"args", strings.Join(args, " "),
			"stderr", strings.TrimSpace(stderr.String()),
			"error", err,
		)
		return nil, &ToolError{Stderr: stderr.String(), Err: domain.ErrExtractionFailed}
	}

	y.logger.Debug("extractor finished",
		"args", strings.Join(args, " "),
		"duration", time.Since(start),
	)
	return stdout.Bytes(), nil
}

// findOutput locates the file the tool wrote under dir with the given stem.
// A clean exit without the file means the tool silently did nothing.
func findOutput(dir, stem string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read output dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), stem) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", domain.ErrOutputMissing
}
