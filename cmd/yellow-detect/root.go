package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ironsheep/yellow-detect/internal/detection"
	frameprep "github.com/ironsheep/yellow-detect/internal/imaging"
)

// app carries what every subcommand shares. logger is nil unless debug
// logging was requested.
type app struct {
	logger *log.Logger
}

// newRootCmd builds the command tree. Tests call it directly with their own
// output buffers.
func newRootCmd(logger *log.Logger) *cobra.Command {
	a := &app{logger: logger}

	root := &cobra.Command{
		Use:   "yellow-detect",
		Short: "Yellow region detector",
		Long: `Finds the largest yellow region in camera frames and reports its bounding box.

Frames can be checked one by one (detect), followed continuously with
steering commands pushed to a controller (track), or inspected from an MCP
client over stdin/stdout (mcp).

Environment variables:
  YELLOW_DETECT_LOG_LEVEL=debug    Enable debug logging`,
		SilenceUsage: true,
	}

	root.AddCommand(
		a.newDetectCmd(),
		a.newTrackCmd(),
		a.newMCPCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "yellow-detect %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	}
}

func (a *app) detectionOptions() []detection.Option {
	if a.logger == nil {
		return nil
	}
	return []detection.Option{detection.WithLogger(a.logger)}
}

// bandFlags binds the detection band onto fs, starting from the defaults.
func bandFlags(fs *pflag.FlagSet, cfg *detection.Config) *string {
	*cfg = detection.DefaultConfig()
	fs.IntVar(&cfg.LowerHue, "lower-hue", cfg.LowerHue, "lower hue bound (inclusive)")
	fs.IntVar(&cfg.UpperHue, "upper-hue", cfg.UpperHue, "upper hue bound (inclusive)")
	fs.IntVar(&cfg.LowerSat, "lower-sat", cfg.LowerSat, "lower saturation bound, 0-255")
	fs.IntVar(&cfg.UpperSat, "upper-sat", cfg.UpperSat, "upper saturation bound, 0-255")
	fs.IntVar(&cfg.LowerVal, "lower-val", cfg.LowerVal, "lower value bound, 0-255")
	fs.IntVar(&cfg.UpperVal, "upper-val", cfg.UpperVal, "upper value bound, 0-255")
	fs.Float64Var(&cfg.MinArea, "min-area", cfg.MinArea, "contour area the largest region must exceed")
	return fs.String("hue-units", string(cfg.HueUnits), "unit of the hue bounds: half-degrees or degrees")
}

// prepareFlags binds the preprocessing options onto fs. The crop region is
// returned as raw text for parseRegion.
func prepareFlags(fs *pflag.FlagSet, opts *frameprep.PrepareOptions) *string {
	fs.IntVar(&opts.MaxWidth, "max-width", 0, "downscale frames to at most this width")
	fs.IntVar(&opts.MaxHeight, "max-height", 0, "downscale frames to at most this height")
	fs.Float64Var(&opts.BlurSigma, "blur", 0, "Gaussian blur radius applied before detection")
	return fs.String("region", "", "crop to x1,y1,x2,y2 before detection")
}

// parseRegion reads "x1,y1,x2,y2". An empty string means no crop.
func parseRegion(s string) (*frameprep.Region, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("region %q: want x1,y1,x2,y2", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", s, err)
		}
		v[i] = n
	}
	return &frameprep.Region{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}, nil
}

// frameFlags groups the detection and preprocessing flags shared by detect
// and track.
type frameFlags struct {
	detect   detection.Config
	prepare  frameprep.PrepareOptions
	hueUnits *string
	region   *string
}

func (f *frameFlags) bind(fs *pflag.FlagSet) {
	f.hueUnits = bandFlags(fs, &f.detect)
	f.region = prepareFlags(fs, &f.prepare)
}

// resolve finishes the flag values and validates the band.
func (f *frameFlags) resolve() error {
	f.detect.HueUnits = detection.HueUnits(*f.hueUnits)
	region, err := parseRegion(*f.region)
	if err != nil {
		return err
	}
	f.prepare.Region = region
	return f.detect.Validate()
}
