package jeebie

import (
	"context"
	"log/slog"

	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/audio"
	"github.com/valerio/jeebie-core/jeebie/cpu"
	"github.com/valerio/jeebie-core/jeebie/debug"
	"github.com/valerio/jeebie-core/jeebie/memory"
	"github.com/valerio/jeebie-core/jeebie/serial"
	"github.com/valerio/jeebie-core/jeebie/timing"
)

// DMG represents the root struct and entry point for running the emulation.
// It interleaves CPU steps with the timer, the link port and the audio frame
// sequencer. It is not safe for concurrent use.
type DMG struct {
	cpu *cpu.CPU
	mem *memory.MMU

	// apuCycles and frameCycles carry the cycles not yet consumed by an APU
	// step or a frame.
	apuCycles   int
	frameCycles int
	frames      uint64

	onFrame func(frame uint64)
}

type config struct {
	memOpts  []memory.Option
	savePath string
	noSave   bool
	trace    bool
	onFrame  func(frame uint64)
}

// Option configures a DMG.
type Option func(*config)

// WithSavePath stores battery-backed cartridge RAM at path.
func WithSavePath(path string) Option {
	return func(c *config) { c.savePath = path }
}

// WithoutSave keeps cartridge RAM in memory only.
func WithoutSave() Option {
	return func(c *config) { c.noSave = true }
}

// WithAPUOptions configures the audio unit.
func WithAPUOptions(opts ...audio.Option) Option {
	return func(c *config) { c.memOpts = append(c.memOpts, memory.WithAPUOptions(opts...)) }
}

// WithSerialSink receives the bytes the game sends over the link port.
func WithSerialSink(sink serial.Sink) Option {
	return func(c *config) { c.memOpts = append(c.memOpts, memory.WithSerialSink(sink)) }
}

// WithTrace logs every executed instruction at debug level.
func WithTrace(enabled bool) Option {
	return func(c *config) { c.trace = enabled }
}

// WithFrameHook calls hook at the end of every frame with the number of
// frames run so far.
func WithFrameHook(hook func(frame uint64)) Option {
	return func(c *config) { c.onFrame = hook }
}

// New creates a new emulator instance with the cartridge inserted.
func New(cart *memory.Cartridge, opts ...Option) (*DMG, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return newDMG(cart, cfg)
}

// NewWithFile creates a new emulator instance and loads the file specified into it.
// Battery RAM is saved next to the ROM unless configured otherwise.
func NewWithFile(path string, opts ...Option) (*DMG, error) {
	cart, err := memory.NewCartridgeFromFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.savePath == "" {
		cfg.savePath = memory.SavePathFor(path)
	}

	slog.Info("Loaded ROM", "path", path, "title", cart.Title())
	return newDMG(cart, cfg)
}

func newDMG(cart *memory.Cartridge, cfg *config) (*DMG, error) {
	memOpts := cfg.memOpts
	if cfg.savePath != "" && !cfg.noSave {
		memOpts = append(memOpts, memory.WithSaveFile(cfg.savePath))
	}

	mem, err := memory.NewWithCartridge(cart, memOpts...)
	if err != nil {
		return nil, err
	}

	d := &DMG{
		cpu:     cpu.New(mem),
		mem:     mem,
		onFrame: cfg.onFrame,
	}
	d.cpu.SetTrace(cfg.trace)
	return d, nil
}

// Step executes one CPU step and advances the rest of the machine by the
// cycles it took. The audio frame sequencer is stepped once every
// audio.CyclesPerStep cycles.
func (d *DMG) Step() int {
	cycles := d.cpu.Step()
	d.mem.Tick(cycles)

	d.apuCycles += cycles
	for d.apuCycles >= audio.CyclesPerStep {
		d.apuCycles -= audio.CyclesPerStep
		d.mem.APU().Step()
	}
	return cycles
}

// RunFrame runs one frame worth of cycles. Cycles past the end of the frame
// count towards the next one.
func (d *DMG) RunFrame() {
	for d.frameCycles < timing.CyclesPerFrame {
		d.frameCycles += d.Step()
	}
	d.frameCycles -= timing.CyclesPerFrame
	d.frames++
	if d.onFrame != nil {
		d.onFrame(d.frames)
	}
}

// Run executes frames until ctx is done, pacing them with limiter.
// A nil limiter runs as fast as possible.
func (d *DMG) Run(ctx context.Context, limiter timing.Limiter) error {
	return d.RunFrames(ctx, limiter, 0)
}

// RunFrames is like Run but also stops after n frames when n is positive,
// returning nil.
func (d *DMG) RunFrames(ctx context.Context, limiter timing.Limiter, n int) error {
	if limiter == nil {
		limiter = timing.NewNoOpLimiter()
	}
	defer limiter.Stop()
	limiter.Reset()

	for i := 0; n <= 0 || i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.RunFrame()
		if err := limiter.WaitForNextFrame(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Reset returns the machine to its power-on state, keeping the cartridge
// and its battery RAM.
func (d *DMG) Reset() {
	d.mem.Reset()
	d.cpu.Reset()
	d.apuCycles = 0
	d.frameCycles = 0
	d.frames = 0
}

func (d *DMG) PressButton(b addr.Button) {
	d.cpu.PressButton(b)
}

func (d *DMG) ReleaseButton(b addr.Button) {
	d.cpu.ReleaseButton(b)
}

// HandleButton presses or releases a button.
func (d *DMG) HandleButton(b addr.Button, pressed bool) {
	if pressed {
		d.PressButton(b)
		return
	}
	d.ReleaseButton(b)
}

// Snapshot captures the machine state for debugging. It returns nil when the
// machine hasn't been built with New.
func (d *DMG) Snapshot() *debug.Snapshot {
	if d.cpu == nil || d.mem == nil {
		return nil
	}
	return debug.Capture(d.cpu, d.mem, d.mem.APU(), debug.DefaultWindow)
}

// SetTrace toggles instruction tracing.
func (d *DMG) SetTrace(enabled bool) {
	d.cpu.SetTrace(enabled)
}

// Close flushes and releases the battery save file.
func (d *DMG) Close() error {
	return d.mem.Close()
}

func (d *DMG) CPU() *cpu.CPU { return d.cpu }

func (d *DMG) MMU() *memory.MMU { return d.mem }

// Frames returns the number of frames run since power-on.
func (d *DMG) Frames() uint64 { return d.frames }
