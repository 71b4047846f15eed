package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/yellow-detect/internal/detection"
	"github.com/ironsheep/yellow-detect/internal/guidance"
	frameprep "github.com/ironsheep/yellow-detect/internal/imaging"
	"github.com/ironsheep/yellow-detect/internal/link"
)

const defaultInterval = 100 * time.Millisecond

// guidanceFlags binds the tracking tolerances and camera orientation onto
// cmd, starting from the defaults.
func guidanceFlags(cmd *cobra.Command, g *guidance.Config) {
	*g = guidance.DefaultConfig()
	fs := cmd.Flags()
	fs.Float64Var(&g.DeadZone, "dead-zone", g.DeadZone, "side of the centre square, in pixels, with zero X/Y error")
	fs.Float64Var(&g.AreaMin, "area-min", g.AreaMin, "coverage percentage below which the rig moves forward")
	fs.Float64Var(&g.AreaMax, "area-max", g.AreaMax, "coverage percentage above which the rig moves backward")
	fs.IntVar(&g.Orientation.Rotation, "rotation", 0, "clockwise sensor rotation: 0, 90, 180 or 270")
	fs.BoolVar(&g.Orientation.Mirrored, "mirror", false, "mirror horizontally after rotating (front camera)")
}

// tracker re-reads one frame file on every tick and pushes the resulting
// command to the controller link.
type tracker struct {
	path     string
	detector *detection.Detector
	prepare  frameprep.PrepareOptions
	guidance guidance.Config
	interval time.Duration
	// frames stops the loop after that many processed frames; zero runs
	// until the context ends.
	frames int

	cache *frameprep.ImageCache
	out   io.Writer
	link  *link.Server
}

func (a *app) newTrackCmd() *cobra.Command {
	var (
		flags    frameFlags
		g        guidance.Config
		listen   string
		interval time.Duration
		frames   int
	)

	cmd := &cobra.Command{
		Use:   "track FRAME",
		Short: "Follow the yellow region in a frame file and steer a controller",
		Long: `Re-reads FRAME at every interval, detects the yellow region and computes
the steering command. Each command is printed with its status and sent as an
"x,y,z" line to the controller connected on --listen. The most recent
controller connection replaces any earlier one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.resolve(); err != nil {
				return err
			}
			if err := g.Validate(); err != nil {
				return err
			}
			d, err := detection.New(flags.detect, a.detectionOptions()...)
			if err != nil {
				return err
			}

			var linkOpts []link.Option
			if a.logger != nil {
				linkOpts = append(linkOpts, link.WithLogger(a.logger))
			}
			srv := link.New(listen, linkOpts...)
			if err := srv.Listen(); err != nil {
				return err
			}
			defer srv.Close()

			ctx := cmd.Context()
			serveErr := make(chan error, 1)
			go func() { serveErr <- srv.Serve(ctx) }()

			t := &tracker{
				path:     args[0],
				detector: d,
				prepare:  flags.prepare,
				guidance: g,
				interval: interval,
				frames:   frames,
				cache:    frameprep.NewImageCache(),
				out:      cmd.OutOrStdout(),
				link:     srv,
			}
			if err := t.run(ctx); err != nil {
				return err
			}
			srv.Close()
			if err := <-serveErr; err != nil && !errors.Is(err, link.ErrClosed) {
				return err
			}
			return nil
		},
	}

	flags.bind(cmd.Flags())
	guidanceFlags(cmd, &g)
	cmd.Flags().StringVar(&listen, "listen", link.DefaultAddr, "address the controller connects to")
	cmd.Flags().DurationVar(&interval, "interval", defaultInterval, "time between frames")
	cmd.Flags().IntVar(&frames, "frames", 0, "stop after this many frames (0 runs until interrupted)")
	return cmd
}

// run ticks until ctx ends or the frame budget is spent. A frame that cannot
// be read is reported and skipped; the camera may be mid-write.
func (t *tracker) run(ctx context.Context) error {
	interval := t.interval
	if interval <= 0 {
		interval = defaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	done := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		cmd, err := t.step()
		if err != nil {
			fmt.Fprintf(t.out, "frame skipped: %v\n", err)
			continue
		}
		fmt.Fprintf(t.out, "%s %s\n", cmd.Line(), cmd.Status)

		if err := t.link.Send(cmd); err != nil && !errors.Is(err, link.ErrNoClient) {
			fmt.Fprintf(t.out, "send failed: %v\n", err)
		}

		done++
		if t.frames > 0 && done >= t.frames {
			return nil
		}
	}
}

// step processes the current contents of the frame file.
func (t *tracker) step() (guidance.Command, error) {
	t.cache.Evict(t.path)
	img, err := t.cache.Load(t.path)
	if err != nil {
		return guidance.Command{}, err
	}
	prepared, err := frameprep.Prepare(img, t.prepare)
	if err != nil {
		return guidance.Command{}, err
	}
	result, err := t.detector.DetectImage(prepared)
	if err != nil {
		return guidance.Command{}, err
	}
	b := prepared.Bounds()
	return guidance.Compute(result, b.Dx(), b.Dy(), t.guidance)
}
