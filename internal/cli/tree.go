package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/curvesvg/pkg/pipeline"
)

// treeCommand creates the tree command, which draws the resolved layer and
// element hierarchy as a graph.
func (c *CLI) treeCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Draw the scene tree of a drawing",
		Long: `Draw the layer and element hierarchy of the first artboard.

The output format follows the -o extension: .dot writes Graphviz source,
anything else an SVG rendered with Graphviz.`,
		Example: `  curvesvg tree logo.curve
  curvesvg tree logo.curve -o logo.dot`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: drawingFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = treeFormat(opts.output)
			return c.runConvert(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.svg or .dot), or - for DOT on stdout")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts and draw again")
	opts.cache.register(cmd)

	return cmd
}

// treeFormat picks dot or outline from the output path.
func treeFormat(output string) string {
	if output == stdoutPath || strings.EqualFold(filepath.Ext(output), ".dot") {
		return pipeline.FormatDOT
	}
	return pipeline.FormatOutline
}
