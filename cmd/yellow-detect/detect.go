package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/yellow-detect/internal/detection"
	frameprep "github.com/ironsheep/yellow-detect/internal/imaging"
)

// frameReport is one line of detect output.
type frameReport struct {
	Path string `json:"path"`
	*detection.Analysis
	Wire [detection.WireLen]float32 `json:"wire"`
}

func (a *app) newDetectCmd() *cobra.Command {
	var (
		flags  frameFlags
		asJSON bool
		jobs   int
	)

	cmd := &cobra.Command{
		Use:   "detect FILE...",
		Short: "Report the largest yellow region in each image",
		Long: `Runs detection on every file and prints one line per file, in argument order.

The default output is the path followed by the five wire values
found,left,top,right,bottom. With --json each line is a JSON object that
also carries the mask statistics.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.resolve(); err != nil {
				return err
			}
			d, err := detection.New(flags.detect, a.detectionOptions()...)
			if err != nil {
				return err
			}
			reports, err := detectFiles(cmd.Context(), d, flags.prepare, args, jobs)
			if err != nil {
				return err
			}
			return writeReports(cmd.OutOrStdout(), reports, asJSON)
		},
	}

	flags.bind(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON lines instead of wire values")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "frames analysed in parallel")
	return cmd
}

// detectFiles analyses paths with at most jobs frames in flight. Reports
// come back in path order; the first failure cancels the rest.
func detectFiles(ctx context.Context, d *detection.Detector, prep frameprep.PrepareOptions, paths []string, jobs int) ([]frameReport, error) {
	if jobs < 1 {
		jobs = 1
	}
	reports := make([]frameReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			analysis, err := analyzeFile(d, path, prep)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = frameReport{Path: path, Analysis: analysis, Wire: analysis.Result.Wire()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func analyzeFile(d *detection.Detector, path string, prep frameprep.PrepareOptions) (*detection.Analysis, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	prepared, err := frameprep.Prepare(img, prep)
	if err != nil {
		return nil, err
	}
	frame, err := detection.FrameFromImage(prepared)
	if err != nil {
		return nil, err
	}
	return d.Analyze(frame)
}

func writeReports(w io.Writer, reports []frameReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range reports {
		if _, err := fmt.Fprintf(w, "%s %s\n", r.Path, formatWire(r.Wire)); err != nil {
			return err
		}
	}
	return nil
}

// formatWire renders the wire values comma separated: "1,30,20,70,60".
func formatWire(w [detection.WireLen]float32) string {
	parts := make([]string, len(w))
	for i, v := range w {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return strings.Join(parts, ",")
}
