package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dotfill/dotfill/pkg/palette"
	"github.com/dotfill/dotfill/pkg/pipeline"
)

// ishiharaOpts holds the command-line flags for the ishihara command.
type ishiharaOpts struct {
	output   string
	formats  string
	count    int
	minRatio float64
	maxRatio float64
	margin   float64
	seed     uint64
	noCache  bool
	redis    string
}

// newIshiharaCmd creates the ishihara command. It expects a region mask
// image where the darkest tone is the forbidden background, the next tone
// the hidden digit, and the lightest the distractor field; regions get the
// standard red-green test plate colours.
func newIshiharaCmd() *cobra.Command {
	opts := ishiharaOpts{
		count:    600,
		minRatio: 0.004,
		maxRatio: 0.012,
		margin:   1,
		seed:     pipeline.DefaultSeed,
	}

	cmd := &cobra.Command{
		Use:   "ishihara [image]",
		Short: "Render an Ishihara-style test plate",
		Long: `Ishihara fills a multi-region mask with small dots in the classic
red-green test plate colours: the digit region gets green tones, the
distractor field orange tones. Dot sizes are sampled up front and placed
largest-first, matching the dense even texture of the printed plates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIshihara(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, json, dot (comma-separated)")
	cmd.Flags().IntVarP(&opts.count, "count", "n", opts.count, "number of dot sizes to sample")
	cmd.Flags().Float64Var(&opts.minRatio, "min-ratio", opts.minRatio, "smallest dot radius as a fraction of the short image side")
	cmd.Flags().Float64Var(&opts.maxRatio, "max-ratio", opts.maxRatio, "largest dot radius as a fraction of the short image side")
	cmd.Flags().Float64Var(&opts.margin, "margin", opts.margin, "minimum gap between dots in pixels")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "random seed")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "shared Redis cache address (host:port)")

	return cmd
}

// runIshihara executes the ishihara command.
func runIshihara(cmd *cobra.Command, source string, opts *ishiharaOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	greedy := false
	pOpts := pipeline.Options{
		Source:   source,
		Indexed:  true,
		MinRatio: opts.minRatio,
		MaxRatio: opts.maxRatio,
		N:        opts.count,
		Margin:   &opts.margin,
		Greedy:   &greedy,
		Seed:     opts.seed,
		Formats:  parseFormats(opts.formats),
		Groups: palette.Groups{
			1: palette.IshiharaDigit,
			2: palette.IshiharaDistractor,
		},
	}

	c, err := openCache(opts.noCache, opts.redis)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(c, nil, nil, logger)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Plating %s...", filepath.Base(source)))
	spinner.Start()
	result, err := runner.Execute(ctx, pOpts)
	spinner.Stop()
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

	printSuccess("Plated %s", filepath.Base(source))
	printStats(result.Stats.CircleCount, result.Packing.CoveredArea(), result.CacheInfo.PackHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
