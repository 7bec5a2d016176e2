// Package config is the driver-facing surface this module exposes:
// render(config) -> {processed}. It owns nothing about scene construction
// or asset loading (both out of scope per the purpose statement); it only
// knows how to turn a RenderConfig into a scheduler run against the
// integrator the caller selected.
package config

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"runtime"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
	"github.com/lightmetrica/lightmetrica-go/pkg/film"
	"github.com/lightmetrica/lightmetrica-go/pkg/integrator"
	"github.com/lightmetrica/lightmetrica-go/pkg/rerrors"
	"github.com/lightmetrica/lightmetrica-go/pkg/rlog"
	"github.com/lightmetrica/lightmetrica-go/pkg/scheduler"
)

// Mode mirrors integrator.Mode as the string spelling accepted in config.
type Mode string

const (
	ModeNaive Mode = "naive"
	ModeNEE   Mode = "nee"
	ModeMIS   Mode = "mis"
)

// ImageSampleMode mirrors integrator.ImageSampleMode as the string spelling
// accepted in config.
type ImageSampleMode string

const (
	ImageSamplePixel ImageSampleMode = "pixel"
	ImageSampleImage ImageSampleMode = "image"
)

// SchedulerKind selects the SPP or SPI scheduler backend.
type SchedulerKind string

const (
	SchedulerSPP SchedulerKind = "spp"
	SchedulerSPI SchedulerKind = "spi"
)

// Integrator selects which walk algorithm render() drives.
type Integrator string

const (
	IntegratorPT    Integrator = "pt"
	IntegratorVolPT Integrator = "volpt"
)

// RenderableScene is the subset of core.Scene a render() call needs to
// check readiness against, via rerrors.RequireRenderable, before starting
// the scheduler.
type RenderableScene interface {
	core.Scene
	rerrors.Renderable
}

// RenderConfig is the config struct spec.md §6.2 names: scene and output
// are Go references (asset-catalog lifecycle and film allocation are both
// external collaborators, never config-file strings), everything else is a
// scalar recognized by the PT/VolPT integrator and scheduler.
type RenderConfig struct {
	Scene  RenderableScene
	Output *film.Film

	MaxLength       int
	Seed            *uint32
	Mode            Mode
	ImageSampleMode ImageSampleMode
	Scheduler       SchedulerKind
	Integrator      Integrator

	SPP     int
	SPI     int
	Workers int

	// VolPT only.
	MaxVerts int
	RRProb   float64

	Logger   rlog.Logger
	Reporter scheduler.ProgressReporter
}

// RenderResult is render()'s return value: the number of samples actually
// processed, which can be short of the configured total if the context was
// cancelled mid-run.
type RenderResult struct {
	Processed uint64
}

// withDefaults fills in every key spec.md §6.2 gives a default for and
// infers the scheduler backend from the image-sampling mode when the caller
// left it unset, without mutating the caller's RenderConfig.
func (c RenderConfig) withDefaults() RenderConfig {
	if c.Mode == "" {
		c.Mode = ModeMIS
	}
	if c.ImageSampleMode == "" {
		c.ImageSampleMode = ImageSamplePixel
	}
	if c.Integrator == "" {
		c.Integrator = IntegratorPT
	}
	if c.Scheduler == "" {
		if c.ImageSampleMode == ImageSampleImage {
			c.Scheduler = SchedulerSPI
		} else {
			c.Scheduler = SchedulerSPP
		}
	}
	if c.RRProb == 0 {
		c.RRProb = 0.2
	}
	if c.Logger == nil {
		c.Logger = rlog.NewNop()
	}
	if c.Reporter == nil {
		c.Reporter = scheduler.NopReporter{}
	}
	return c
}

// validate checks the InvalidArgument-class preconditions render() must
// reject before doing any work.
func (c RenderConfig) validate() error {
	if c.Output == nil {
		return rerrors.New(rerrors.InvalidArgument, "config: output film is required")
	}
	if c.MaxLength <= 0 && c.Integrator == IntegratorPT {
		return rerrors.New(rerrors.InvalidArgument, "config: max_length must be positive")
	}
	if c.MaxVerts <= 0 && c.Integrator == IntegratorVolPT {
		return rerrors.New(rerrors.InvalidArgument, "config: max_verts must be positive")
	}
	switch c.Mode {
	case ModeNaive, ModeNEE, ModeMIS:
	default:
		return rerrors.New(rerrors.InvalidArgument, fmt.Sprintf("config: unknown mode %q", c.Mode))
	}
	switch c.ImageSampleMode {
	case ImageSamplePixel, ImageSampleImage:
	default:
		return rerrors.New(rerrors.InvalidArgument, fmt.Sprintf("config: unknown image_sample_mode %q", c.ImageSampleMode))
	}
	switch c.Scheduler {
	case SchedulerSPP:
		if c.SPP <= 0 {
			return rerrors.New(rerrors.InvalidArgument, "config: spp must be positive for the spp scheduler")
		}
	case SchedulerSPI:
		if c.SPI <= 0 {
			return rerrors.New(rerrors.InvalidArgument, "config: spi must be positive for the spi scheduler")
		}
	default:
		return rerrors.New(rerrors.InvalidArgument, fmt.Sprintf("config: unknown scheduler %q", c.Scheduler))
	}
	return nil
}

func toIntegratorMode(m Mode) integrator.Mode {
	switch m {
	case ModeNaive:
		return integrator.Naive
	case ModeNEE:
		return integrator.NEE
	default:
		return integrator.MIS
	}
}

func toImageSampleMode(m ImageSampleMode) integrator.ImageSampleMode {
	if m == ImageSampleImage {
		return integrator.Image
	}
	return integrator.Pixel
}

// entropySeed draws a seed from a system entropy source, used when the
// caller supplies no deterministic Seed (spec.md §5: "seed = user-supplied
// base + worker id, or a system entropy source when no seed is given").
func entropySeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) &^ (1 << 63))
}

// Render is the driver-facing entry point: render(config) -> {processed}.
// It checks the scene is renderable (§7 require_renderable), validates the
// scalar config, builds one RNG stream per worker, and drives either PT or
// VolPT through the SPP or SPI scheduler named by Scheduler (which defaults
// from the image-sampling mode when unset).
func Render(ctx context.Context, cfg RenderConfig) (RenderResult, error) {
	if err := rerrors.RequireRenderable(cfg.Scene); err != nil {
		return RenderResult{}, err
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return RenderResult{}, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	baseSeed := entropySeed()
	if cfg.Seed != nil {
		baseSeed = int64(*cfg.Seed)
	}
	rngs := make([]core.RNG, workers)
	for i := range rngs {
		rngs[i] = core.NewGoRNG(baseSeed + int64(i))
	}

	aspect := cfg.Output.Aspect()
	sample := buildSampleFunc(cfg, aspect)

	cfg.Logger.Printf("render starting: integrator=%s mode=%s image_sample_mode=%s scheduler=%s workers=%d",
		cfg.Integrator, cfg.Mode, cfg.ImageSampleMode, cfg.Scheduler, workers)

	var processed uint64
	var err error
	switch cfg.Scheduler {
	case SchedulerSPP:
		sched := scheduler.SPP{Width: cfg.Output.Width, Height: cfg.Output.Height, SPP: cfg.SPP, Workers: workers, Reporter: cfg.Reporter}
		processed, err = sched.Run(ctx, func(threadID, index int) error {
			x, y := sched.Pixel(index)
			rng := rngs[threadID]
			rp := core.NewVec2(
				(float64(x)+rng.Float64())/float64(cfg.Output.Width),
				(float64(y)+rng.Float64())/float64(cfg.Output.Height),
			)
			sample(rng, rp)
			return nil
		})
		if err == nil && processed > 0 {
			cfg.Output.Rescale(float64(cfg.Output.Width*cfg.Output.Height) / float64(processed))
		}
	case SchedulerSPI:
		sched := scheduler.SPI{Total: cfg.SPI, Workers: workers, Reporter: cfg.Reporter}
		processed, err = sched.Run(ctx, func(threadID, index int) error {
			rng := rngs[threadID]
			rp := core.NewVec2(rng.Float64(), rng.Float64())
			sample(rng, rp)
			return nil
		})
		if err == nil && processed > 0 {
			cfg.Output.Rescale(float64(cfg.Output.Width*cfg.Output.Height) / float64(processed))
		}
	}
	if err != nil {
		return RenderResult{Processed: processed}, err
	}

	cfg.Logger.Printf("render finished: processed=%d", processed)
	return RenderResult{Processed: processed}, nil
}

// buildSampleFunc closes over the selected integrator so both scheduler
// backends above can drive it through one identical call shape.
func buildSampleFunc(cfg RenderConfig, aspect float64) func(rng core.RNG, rp core.Vec2) {
	switch cfg.Integrator {
	case IntegratorVolPT:
		vpt := integrator.NewVolPT(integrator.VolPTConfig{
			MaxLength:       cfg.MaxVerts,
			Mode:            toIntegratorMode(cfg.Mode),
			ImageSampleMode: toImageSampleMode(cfg.ImageSampleMode),
			RRProb:          cfg.RRProb,
		})
		return func(rng core.RNG, rp core.Vec2) {
			vpt.Sample(rng, cfg.Scene, cfg.Output, rp, aspect)
		}
	default:
		pt := integrator.NewPT(integrator.PTConfig{
			MaxLength:       cfg.MaxLength,
			Mode:            toIntegratorMode(cfg.Mode),
			ImageSampleMode: toImageSampleMode(cfg.ImageSampleMode),
		})
		return func(rng core.RNG, rp core.Vec2) {
			pt.Sample(rng, cfg.Scene, cfg.Output, rp, aspect)
		}
	}
}
