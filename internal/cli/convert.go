package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/curvesvg/pkg/errors"
	"github.com/matzehuels/curvesvg/pkg/pipeline"
)

// stdoutPath selects standard output for -o.
const stdoutPath = "-"

// formatExt maps output formats to file extensions.
var formatExt = map[string]string{
	pipeline.FormatSVG:     ".svg",
	pipeline.FormatJSON:    ".json",
	pipeline.FormatDOT:     ".dot",
	pipeline.FormatOutline: ".outline.svg",
}

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	output    string
	formats   string
	precision int
	refresh   bool
	cache     cacheFlags
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a drawing archive to SVG",
		Long: `Convert the first artboard of a drawing archive.

By default the SVG is written next to the input with an .svg extension.
Several formats can be requested at once; -o is then used as a base path.`,
		Example: `  curvesvg convert logo.curve
  curvesvg convert logo.curve -o out/logo.svg
  curvesvg convert logo.curve -f svg,json,outline -o build/logo
  curvesvg convert logo.curve -o - > logo.svg`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: drawingFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (several), or - for stdout")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, dot, outline (comma-separated)")
	cmd.Flags().IntVar(&opts.precision, "precision", 0, "decimals per coordinate (default from config)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts and convert again")
	opts.cache.register(cmd)

	return cmd
}

func (c *CLI) runConvert(ctx context.Context, input string, opts convertOpts) error {
	formats := pipeline.ParseFormats(opts.formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}
	if opts.output == stdoutPath && len(formats) != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "-o - needs exactly one format, got %d", len(formats))
	}

	data, err := readInput(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.pipelineOptions(formats)
	popts.Refresh = opts.refresh
	if opts.precision > 0 {
		popts.Precision = opts.precision
	}

	prog := newProgress(loggerFromContext(ctx))
	result, err := runner.Execute(ctx, data, popts)
	if err != nil {
		return err
	}

	if opts.output == stdoutPath {
		_, err := os.Stdout.Write(result.Artifacts[formats[0]])
		return err
	}

	paths := outputPaths(input, opts.output, formats)
	for _, f := range formats {
		if err := writeArtifact(paths[f], result.Artifacts[f]); err != nil {
			return err
		}
	}
	prog.done("Converted " + filepath.Base(input))

	printSuccess("Converted %s", filepath.Base(input))
	for _, f := range formats {
		printFile(paths[f])
	}
	printStats(result.Stats, result.CacheInfo.RenderHit)
	printWarnings(result.Warnings)
	return nil
}

// readInput reads the archive named on the command line.
func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// outputPaths decides where each format goes.
//
// With no -o the input path minus its extension is the base. A single format
// with -o uses the path as given; several formats treat -o as a base and
// append each format's extension.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else {
		base = trimKnownExt(base)
	}
	for _, f := range formats {
		paths[f] = base + formatExt[f]
	}
	return paths
}

// trimKnownExt strips an output extension so "-o logo.svg -f svg,json"
// yields logo.svg and logo.json rather than logo.svg.json.
func trimKnownExt(path string) string {
	exts := make([]string, 0, len(formatExt))
	for _, ext := range formatExt {
		exts = append(exts, ext)
	}
	// Longest first so .outline.svg wins over .svg.
	sort.Slice(exts, func(i, j int) bool { return len(exts[i]) > len(exts[j]) })
	for _, ext := range exts {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext)
		}
	}
	return path
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
