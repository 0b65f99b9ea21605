package app

import (
	"errors"

	"github.com/spf13/cobra"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/bayleafwalker/bindery-troubleshoot/internal/diagnoser"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/report"
)

// ErrProblemsFound is returned by diagnose --fail when anything is inactive or missing.
var ErrProblemsFound = errors.New("inactive modules or missing services found")

type Diagnose struct {
	cmd *cobra.Command

	mainopts *Options
	snapshot string
	fail     bool
}

func NewDiagnose(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose <options>",
		Short: "explain inactive modules and missing services",
		Args:  cobra.NoArgs,
	}
	c := &Diagnose{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run() }
	flags := cmd.Flags()
	flags.StringVarP(&c.snapshot, "snapshot", "f", "", "read the inventory from a snapshot file instead of the cluster")
	flags.BoolVar(&c.fail, "fail", false, "exit non-zero when problems are found")
	return cmd
}

func (c *Diagnose) Run() error {
	ctx := c.cmd.Context()
	format, err := report.ParseFormat(c.mainopts.output)
	if err != nil {
		return err
	}

	src, err := c.mainopts.source(c.snapshot)
	if err != nil {
		return err
	}
	snap, err := inventory.Capture(ctx, src)
	if err != nil {
		return err
	}
	rep, err := diagnoser.NewDefault().Diagnose(ctx, snap)
	if err != nil {
		return err
	}
	log.FromContext(ctx).V(1).Info("diagnosis complete",
		"modules", len(snap.Modules), "inactive", len(rep.Modules), "missingServices", len(rep.MissingServices))

	if err := report.Render(c.cmd.OutOrStdout(), report.Build(snap, rep), format); err != nil {
		return err
	}
	if c.fail && (len(rep.Modules) > 0 || len(rep.MissingServices) > 0) {
		return ErrProblemsFound
	}
	return nil
}
