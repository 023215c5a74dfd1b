package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotfill/dotfill/pkg/config"
	"github.com/dotfill/dotfill/pkg/errors"
	"github.com/dotfill/dotfill/pkg/pipeline"
)

// packOpts holds the command-line flags for the pack command.
type packOpts struct {
	output     string  // output file (single format) or base path
	formats    string  // comma-separated output formats
	minRatio   float64 // smallest radius as a fraction of the short image side
	maxRatio   float64 // largest radius as a fraction of the short image side
	radii      string  // comma-separated explicit radii (switches to fixed mode)
	count      int     // number of radii to sample in fixed mode, or greedy cap
	margin     float64 // minimum gap between circles and to the mask edge
	fixed      bool    // sample a fixed radii list instead of greedy refinement
	seed       uint64  // random seed for reproducible packings
	bias       string  // size bias: beta, product, uniform
	threshold  uint8   // silhouette luminance cutoff
	invert     bool    // fill the background instead of the shape
	indexed    bool    // treat distinct luminances as separate regions
	palette    string  // comma-separated colour list
	background string  // canvas background colour
	stroke     string  // circle outline colour
	scale      float64 // PNG resolution multiplier
	profile    string  // named profile from the config file
	configPath string  // dotfill.toml location
	noCache    bool    // disable the artifact cache
	refresh    bool    // recompute even when cached
	redis      string  // shared Redis cache address
	watch      bool    // live TUI showing placements as they land
}

// newPackCmd creates the pack command, the main entry point: it decodes an
// image into a mask, fills it with circles, and writes the rendered outputs.
func newPackCmd() *cobra.Command {
	opts := packOpts{
		minRatio: 0.005,
		maxRatio: 0.05,
		margin:   1,
		seed:     pipeline.DefaultSeed,
		scale:    pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "pack [image]",
		Short: "Fill an image silhouette with circles",
		Long: `Pack decodes an image into a mask (dark pixels are fillable by default),
fills the mask with non-overlapping circles, and renders the result.

Greedy mode (default) keeps placing the largest circle that still fits,
shrinking as the mask fills up. With --radii or --fixed, a predetermined
list of sizes is placed largest-first instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, json, dot (comma-separated)")
	cmd.Flags().Float64Var(&opts.minRatio, "min-ratio", opts.minRatio, "smallest radius as a fraction of the short image side")
	cmd.Flags().Float64Var(&opts.maxRatio, "max-ratio", opts.maxRatio, "largest radius as a fraction of the short image side")
	cmd.Flags().StringVar(&opts.radii, "radii", "", "explicit radii in pixels (comma-separated, largest-first placement)")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 0, "max circles (greedy) or radii to sample (fixed)")
	cmd.Flags().Float64Var(&opts.margin, "margin", opts.margin, "minimum gap between circles in pixels")
	cmd.Flags().BoolVar(&opts.fixed, "fixed", false, "sample a fixed radii list instead of greedy refinement")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "random seed")
	cmd.Flags().StringVar(&opts.bias, "bias", "", "radius size bias: beta (default), product, uniform")
	cmd.Flags().Uint8Var(&opts.threshold, "threshold", 0, "silhouette luminance cutoff (default 128)")
	cmd.Flags().BoolVar(&opts.invert, "invert", false, "fill the background instead of the shape")
	cmd.Flags().BoolVar(&opts.indexed, "indexed", false, "treat each distinct luminance as its own region")
	cmd.Flags().StringVar(&opts.palette, "palette", "", "circle colours (comma-separated hex)")
	cmd.Flags().StringVar(&opts.background, "background", "", "canvas background colour")
	cmd.Flags().StringVar(&opts.stroke, "stroke", "", "circle outline colour")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG resolution multiplier")
	cmd.Flags().StringVar(&opts.profile, "profile", "", "named profile from the config file")
	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultFilename, "config file with profiles and palettes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "shared Redis cache address (host:port)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "show circle placements live")

	return cmd
}

// runPack executes the pack command.
func runPack(cmd *cobra.Command, source string, opts *packOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	pOpts, err := buildPipelineOptions(cmd, source, opts)
	if err != nil {
		return err
	}

	c, err := openCache(opts.noCache, opts.redis)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(c, nil, nil, logger)
	defer runner.Close()

	var result *pipeline.Result
	if opts.watch {
		result, err = runPackTUI(ctx, runner, pOpts)
	} else {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Packing %s...", filepath.Base(source)))
		spinner.Start()
		result, err = runner.Execute(ctx, pOpts)
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	for _, n := range result.Packing.Notices {
		printWarning("%s", n.Message)
	}

	paths, err := writeArtifacts(opts.output, source, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Packed %s", filepath.Base(source))
	printStats(result.Stats.CircleCount, result.Packing.CoveredArea(), result.CacheInfo.PackHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// buildPipelineOptions merges the config profile (if any) with explicit
// flags. Flags the user set always win over profile values.
func buildPipelineOptions(cmd *cobra.Command, source string, opts *packOpts) (pipeline.Options, error) {
	pOpts := pipeline.Options{
		Source:     source,
		Invert:     opts.invert,
		Indexed:    opts.indexed,
		Refresh:    opts.refresh,
		MinRatio:   opts.minRatio,
		MaxRatio:   opts.maxRatio,
		N:          opts.count,
		Margin:     &opts.margin,
		Seed:       opts.seed,
		Bias:       opts.bias,
		Background: opts.background,
		Stroke:     opts.stroke,
		Scale:      opts.scale,
		Formats:    parseFormats(opts.formats),
	}
	if cmd.Flags().Changed("threshold") {
		pOpts.Threshold = &opts.threshold
	}

	if opts.profile != "" {
		if err := applyProfile(cmd, &pOpts, opts); err != nil {
			return pipeline.Options{}, err
		}
	}

	if opts.radii != "" {
		radii, err := parseRadii(opts.radii)
		if err != nil {
			return pipeline.Options{}, err
		}
		pOpts.Radii = radii
	}
	if opts.fixed {
		greedy := false
		pOpts.Greedy = &greedy
	}
	if opts.palette != "" {
		pOpts.Palette = parseColors(opts.palette)
	}
	return pOpts, nil
}

// applyProfile overlays a named config profile onto the pipeline options,
// skipping any value the user set explicitly on the command line.
func applyProfile(cmd *cobra.Command, pOpts *pipeline.Options, opts *packOpts) error {
	f, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	prof, err := f.Profile(opts.profile)
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if prof.MinRatio != 0 && !changed("min-ratio") {
		pOpts.MinRatio = prof.MinRatio
	}
	if prof.MaxRatio != 0 && !changed("max-ratio") {
		pOpts.MaxRatio = prof.MaxRatio
	}
	if len(prof.Radii) > 0 && !changed("radii") {
		pOpts.Radii = prof.Radii
	}
	if prof.N > 0 && !changed("count") {
		pOpts.N = prof.N
	}
	if prof.Margin != nil && !changed("margin") {
		pOpts.Margin = prof.Margin
	}
	if prof.Greedy != nil && !changed("fixed") {
		pOpts.Greedy = prof.Greedy
	}
	if prof.Seed != nil && !changed("seed") {
		pOpts.Seed = *prof.Seed
	}
	if prof.Bias != "" && !changed("bias") {
		pOpts.Bias = prof.Bias
	}
	if prof.Palette != "" && !changed("palette") {
		def, ok := f.Palettes[prof.Palette]
		if !ok {
			return errors.New(errors.ErrCodeInvalidPalette, "palette %q not defined", prof.Palette)
		}
		colors, groups, err := def.Resolve()
		if err != nil {
			return err
		}
		pOpts.Palette = colors
		pOpts.Groups = groups
	}
	return nil
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	formats := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			formats = append(formats, p)
		}
	}
	return formats
}

// parseRadii parses the --radii flag into a slice of pixel radii.
func parseRadii(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	radii := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		r, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid radius %q", p)
		}
		radii = append(radii, r)
	}
	if len(radii) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no radii given")
	}
	return radii, nil
}

// parseColors parses the --palette flag into a colour list.
func parseColors(s string) []string {
	parts := strings.Split(s, ",")
	colors := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			colors = append(colors, p)
		}
	}
	return colors
}

// writeArtifacts writes each rendered artifact next to the source image (or
// under the --output base path) and returns the written paths.
func writeArtifacts(output, source string, artifacts map[string][]byte) ([]string, error) {
	base := output
	if base == "" {
		base = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}

	// A single artifact may use --output verbatim when it carries an
	// extension already.
	if len(artifacts) == 1 && output != "" && filepath.Ext(output) != "" {
		for _, data := range artifacts {
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return nil, errors.Wrap(errors.ErrCodeRender, err, "write %s", output)
			}
			return []string{output}, nil
		}
	}

	paths := make([]string, 0, len(artifacts))
	for format, data := range artifacts {
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
