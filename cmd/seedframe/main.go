// seedframe: render a frame-evolution animation from a run file.
//
// Usage:
//
//	seedframe -config run.yaml -seed seed.png -out ./frames
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gocv.io/x/gocv"

	"github.com/seedframe/seedframe/internal/config"
	"github.com/seedframe/seedframe/internal/log"
	"github.com/seedframe/seedframe/pkg/animation"
	"github.com/seedframe/seedframe/pkg/synthesis"
)

var (
	configPath = flag.String("config", "", "Path to the YAML run file (required)")
	seedPath   = flag.String("seed", "", "Path to the seed image (required)")
	outDir     = flag.String("out", "./frames", "Directory for rendered frames")
	audioPath  = flag.String("audio", "", "Optional JSON file of audio feature series")
	dryRun     = flag.Bool("dry", false, "Use a mock oracle that echoes frames (no backend needed)")
	logLevel   = flag.String("log-level", config.LogLevel(), "Log level: debug, info, warn, error")
)

func main() {
	flag.Parse()
	log.Init(*logLevel)

	if *configPath == "" || *seedPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: seedframe -config run.yaml -seed seed.png [-out ./frames]")
		os.Exit(1)
	}

	if err := run(); err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	runFile, err := config.LoadRun(*configPath)
	if err != nil {
		return err
	}
	cfg, err := runFile.Animation()
	if err != nil {
		return err
	}

	if *audioPath != "" {
		features, err := loadAudioFeatures(*audioPath)
		if err != nil {
			return err
		}
		runFile.AudioFeatures = features
	}

	seed, err := loadSeed(*seedPath, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer seed.Close()

	oracle, err := buildOracle(runFile)
	if err != nil {
		return err
	}
	defer oracle.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := oracle.Health(ctx); err != nil {
		log.Warn("oracle health check failed, continuing anyway", "error", err)
	}

	animator, err := animation.NewAnimator(cfg, oracle)
	if err != nil {
		return err
	}
	animator.Audio = runFile.AudioFeatures
	animator.OnProgress = func(current, total int) {
		if (current+1)%10 == 0 || current+1 == total {
			log.Info("progress", "frame", current+1, "total", total)
		}
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	started := time.Now()
	frames, genErr := animator.Generate(ctx, seed)
	defer animation.CloseFrames(frames)

	// Partial output is still written; an interrupted render keeps its frames.
	for i := range frames {
		path := filepath.Join(*outDir, fmt.Sprintf("frame_%05d.png", i))
		if ok := gocv.IMWrite(path, frames[i]); !ok {
			return fmt.Errorf("write frame %d to %s", i, path)
		}
	}
	if genErr != nil {
		return genErr
	}

	log.Info("render complete",
		"frames", len(frames),
		"fps", cfg.FPS,
		"elapsed", time.Since(started).Round(time.Millisecond),
		"out", *outDir,
	)
	return nil
}

// buildOracle picks the synthesis backend: a frame-echo mock for dry runs,
// the HTTP client otherwise.
func buildOracle(runFile *config.Run) (synthesis.Oracle, error) {
	if *dryRun {
		return synthesis.NewMock(), nil
	}
	return synthesis.NewClient(runFile.OracleOptions()...)
}

// loadSeed reads the seed image and resizes it to the run dimensions.
func loadSeed(path string, width, height int) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return gocv.Mat{}, fmt.Errorf("cannot read seed image %s", path)
	}
	if img.Cols() == width && img.Rows() == height {
		return img, nil
	}
	log.Info("resizing seed image",
		"from", fmt.Sprintf("%dx%d", img.Cols(), img.Rows()),
		"to", fmt.Sprintf("%dx%d", width, height),
	)
	resized := gocv.NewMat()
	gocv.Resize(img, &resized, image.Pt(width, height), 0, 0, gocv.InterpolationLinear)
	img.Close()
	return resized, nil
}

// loadAudioFeatures reads a JSON object mapping feature names (bass, treble,
// energy) to sample series.
func loadAudioFeatures(path string) (map[string][]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio features: %w", err)
	}
	var features map[string][]float64
	if err := json.Unmarshal(raw, &features); err != nil {
		return nil, fmt.Errorf("parse audio features %s: %w", path, err)
	}
	return features, nil
}
