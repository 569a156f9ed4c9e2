package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/drift/internal/core/domain"
	"go.trai.ch/drift/internal/core/ports"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Watch a project tree and analyze design drift incrementally",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cwd = args[0]
			}

			cfg, err := c.components.ConfigLoader.Load(cwd)
			if err != nil {
				return err
			}

			if debounce, _ := cmd.Flags().GetDuration("debounce"); debounce > 0 {
				cfg.Debounce = debounce
			}
			if revalidate, _ := cmd.Flags().GetBool("revalidate"); revalidate {
				cfg.RevalidateOnLoad = true
			}

			session := c.components.NewSession(cfg)
			unsubscribe := session.Subscribe(&logObserver{logger: c.components.Logger})
			defer unsubscribe()

			ctx := cmd.Context()
			if err := session.Start(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			stats := session.Stop()
			c.components.Logger.Info(fmt.Sprintf(
				"watched %d files, %d changes, %d violations in %s",
				stats.FilesWatched, stats.ChangesDetected, stats.ViolationsFound,
				(time.Duration(stats.DurationMs) * time.Millisecond).Round(time.Second),
			))
			return nil
		},
	}
	cmd.Flags().DurationP("debounce", "d", 0, "Quiet period before a change settles (default 300ms)")
	cmd.Flags().Bool("revalidate", false, "Re-validate restored cache entries against disk content")
	return cmd
}

// logObserver renders pipeline events as log lines.
type logObserver struct {
	logger ports.Logger
}

func (o *logObserver) OnReady() {
	o.logger.Info("session ready")
}

func (o *logObserver) OnAnalysisComplete(changes []domain.Change, _ domain.SessionStats) {
	if len(changes) > 0 {
		o.logger.Info(fmt.Sprintf("analyzed %d change(s)", len(changes)))
	}
}

func (o *logObserver) OnDriftDetected(changes []domain.Change) {
	for _, change := range changes {
		o.logger.Info(string(change.Type) + " " + change.Path)
	}
}

func (o *logObserver) OnViolationsDetected(violations []domain.Violation, _ []domain.Change) {
	for _, v := range violations {
		o.logger.Warn(fmt.Sprintf("%s [%s] %s: %s", v.Severity, v.Rule, v.Path, v.Message))
	}
}

func (o *logObserver) OnPatternsUpdated(profile *domain.DesignPatternProfile) {
	o.logger.Info(fmt.Sprintf(
		"baseline updated: spacing %dpx (%.0f%% confidence), %d component(s)",
		profile.SpacingUnit, profile.SpacingConfidence, len(profile.ComponentUsage),
	))
}

func (o *logObserver) OnError(cause error) {
	o.logger.Error(cause)
}
