package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Prastabm/SafeLanes-Research/internal/source"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the registered city sources",
	RunE: func(cmd *cobra.Command, _ []string) error {
		formatSources(os.Stdout, source.NewRegistry(cfg.Datasets), cfg.Datasets.Dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

// formatSources writes each source's name, city and input path to w.
func formatSources(out io.Writer, reg *source.Registry, dir string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCITY\tFILE")
	for _, s := range reg.All() {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name(), s.City(), source.Path(dir, s.File()))
	}
	_ = w.Flush()
}
