package ci

import (
	"context"
	"os/exec"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aesthetic-atlas/directory-cli/internal/config"
)

// Deployer publishes verified content. A deploy failure never invalidates
// the content itself; callers log it and keep the records.
type Deployer interface {
	Publish(ctx context.Context, message string) error
}

// GitDeployer commits the content tree and pushes it, then optionally runs
// a deploy script.
type GitDeployer struct {
	branch  string
	script  string
	timeout time.Duration
}

// NewGitDeployer creates a Deployer from deploy configuration.
func NewGitDeployer(cfg config.DeployConfig) *GitDeployer {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &GitDeployer{branch: cfg.Branch, script: cfg.Script, timeout: timeout}
}

// NoopDeployer skips publishing. Used for --no-deploy runs.
type NoopDeployer struct{}

// Publish does nothing.
func (NoopDeployer) Publish(context.Context, string) error { return nil }

// Publish stages everything, commits with the given message, and pushes.
// An empty commit (nothing changed since the last deploy) is not an error.
func (d *GitDeployer) Publish(ctx context.Context, message string) error {
	log := zap.L().With(zap.String("component", "ci.deploy"))

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.run(ctx, "git", "add", "-A"); err != nil {
		return eris.Wrap(err, "ci: git add")
	}

	if err := d.run(ctx, "git", "diff", "--cached", "--quiet"); err == nil {
		log.Info("nothing to deploy, working tree clean")
		return nil
	}

	if err := d.run(ctx, "git", "commit", "-m", message); err != nil {
		return eris.Wrap(err, "ci: git commit")
	}
	if err := d.run(ctx, "git", "push", "origin", d.branch); err != nil {
		return eris.Wrap(err, "ci: git push")
	}

	if d.script != "" {
		log.Info("running deploy script", zap.String("script", d.script))
		if err := d.run(ctx, "sh", "-c", d.script); err != nil {
			return eris.Wrap(err, "ci: deploy script")
		}
	}

	log.Info("deploy complete", zap.String("branch", d.branch))
	return nil
}

func (d *GitDeployer) run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return eris.Wrapf(err, "%s: %s", name, string(out))
	}
	return nil
}
