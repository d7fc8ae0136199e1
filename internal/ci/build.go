// Package ci gates persistence on site build verification and publishes
// approved content.
package ci

import (
	"context"
	"os/exec"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aesthetic-atlas/directory-cli/internal/config"
)

// Checker verifies that the content tree still builds. The returned error
// carries the captured command output.
type Checker interface {
	Check(ctx context.Context) error
}

// ExecChecker runs a shell build command with a timeout.
type ExecChecker struct {
	command string
	timeout time.Duration
}

// NewExecChecker creates a Checker from build configuration.
func NewExecChecker(cfg config.BuildConfig) *ExecChecker {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &ExecChecker{command: cfg.Command, timeout: timeout}
}

// Check runs the configured build command. On failure the combined output
// is attached to the error so callers can record the cause.
func (c *ExecChecker) Check(ctx context.Context) error {
	log := zap.L().With(zap.String("component", "ci.build"))
	log.Info("running build check", zap.String("command", c.command))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, "sh", "-c", c.command)
	out, err := cmd.CombinedOutput()
	if err != nil {
		log.Warn("build check failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return eris.Wrapf(err, "ci: build check failed: %s", string(out))
	}

	log.Info("build check passed", zap.Duration("elapsed", time.Since(start)))
	return nil
}
