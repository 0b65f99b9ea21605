package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory/file"
)

type Snapshot struct {
	cmd *cobra.Command

	mainopts *Options
	file     string
}

func NewSnapshot(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot <options>",
		Short: "write the cluster inventory as a YAML snapshot",
		Long: `
The snapshot can later be diagnosed offline with
  bindery-troubleshoot diagnose --snapshot <file>
`,
		Args: cobra.NoArgs,
	}
	c := &Snapshot{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run() }
	cmd.Flags().StringVarP(&c.file, "file", "f", "", "write to file instead of stdout")
	return cmd
}

func (c *Snapshot) Run() error {
	src, err := c.mainopts.clusterSource()
	if err != nil {
		return err
	}
	snap, err := inventory.Capture(c.cmd.Context(), src)
	if err != nil {
		return err
	}
	if c.file == "" {
		return file.Encode(c.cmd.OutOrStdout(), snap)
	}

	f, err := os.Create(c.file)
	if err != nil {
		return err
	}
	if err := file.Encode(f, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
