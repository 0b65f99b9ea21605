package app

import (
	"github.com/spf13/cobra"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/bayleafwalker/bindery-troubleshoot/internal/diagnoser"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory/kube"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/lifecycle"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/report"
)

type StartInactive struct {
	cmd *cobra.Command

	mainopts *Options
}

func NewStartInactive(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-inactive <options>",
		Short: "request a start of every installed or resolved module",
		Long: `
Every non-fragment module in state Installed or Resolved gets a start
request. The inventory is diagnosed again afterwards and reported
together with the outcome of each request.
`,
		Args: cobra.NoArgs,
	}
	c := &StartInactive{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run() }
	return cmd
}

func (c *StartInactive) Run() error {
	ctx := c.cmd.Context()
	format, err := report.ParseFormat(c.mainopts.output)
	if err != nil {
		return err
	}

	src, err := c.mainopts.clusterSource()
	if err != nil {
		return err
	}
	snap, err := inventory.Capture(ctx, src)
	if err != nil {
		return err
	}

	starter := &kube.Starter{Client: c.mainopts.cl, Namespace: c.mainopts.namespace}
	result := lifecycle.StartInactive(ctx, snap.Modules, starter)
	log.FromContext(ctx).Info(result.Message())

	after, err := inventory.Capture(ctx, src)
	if err != nil {
		return err
	}
	rep, err := diagnoser.NewDefault().Diagnose(ctx, after)
	if err != nil {
		return err
	}
	doc := report.Build(after, rep)
	doc.Start = &result
	return report.Render(c.cmd.OutOrStdout(), doc, format)
}
