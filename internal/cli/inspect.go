package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/curvesvg/pkg/archive"
	"github.com/matzehuels/curvesvg/pkg/pipeline"
)

// inspectCommand creates the inspect command, which shows the resolved scene
// of a drawing without writing any files.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse the layers and elements of a drawing",
		Long: `Resolve the first artboard and show its layers and elements.

In a terminal this opens an interactive browser. With --plain, or when
stdout is not a terminal, the scene is printed as a table instead.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: drawingFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !plain && !isatty.IsTerminal(os.Stdout.Fd()) {
				plain = true
			}
			return c.runInspect(cmd.Context(), args[0], plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a table instead of the interactive browser")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, plain bool) error {
	data, err := readInput(input)
	if err != nil {
		return err
	}
	a, err := archive.FromBytes(data)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := c.pipelineOptions([]string{pipeline.FormatJSON})
	bundle, err := a.Load(opts.MinFormatVersion)
	if err != nil {
		return err
	}
	result, err := pipeline.Convert(ctx, bundle.Drawing, bundle.Graph, opts)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s · %s", filepath.Base(input), bundle.Graph.TitleOrDefault(&bundle.Graph.Artboards[0]))
	if plain {
		fmt.Println(StyleTitle.Render(title))
		fmt.Println(sceneTable(result.Scene))
		printStats(result.Stats, false)
		printWarnings(result.Warnings)
		return nil
	}

	_, err = tea.NewProgram(NewSceneModel(title, result.Scene), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("scene browser: %w", err)
	}
	printWarnings(result.Warnings)
	return nil
}
