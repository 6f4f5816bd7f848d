package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"
	"github.com/valerio/jeebie-core/jeebie"
	"github.com/valerio/jeebie-core/jeebie/audio"
	"github.com/valerio/jeebie-core/jeebie/debug"
	"github.com/valerio/jeebie-core/jeebie/disasm"
	"github.com/valerio/jeebie-core/jeebie/input"
	"github.com/valerio/jeebie-core/jeebie/serial"
	"github.com/valerio/jeebie-core/jeebie/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "Jeebie"
	app.Description = "A simple gameboy emulator"
	app.Usage = "jeebie [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run (0 = until interrupted)",
			Value: 0,
		},
		cli.BoolFlag{
			Name:  "realtime",
			Usage: "Pace emulation to the Game Boy frame rate",
		},
		cli.BoolFlag{
			Name:  "trace",
			Usage: "Log every executed instruction (implies debug logging)",
		},
		cli.StringFlag{
			Name:  "save",
			Usage: "Battery save file (default: ROM path with a .sav extension)",
		},
		cli.BoolFlag{
			Name:  "no-save",
			Usage: "Keep cartridge RAM in memory only",
		},
		cli.BoolFlag{
			Name:  "clear-wave-ram",
			Usage: "Clear wave RAM when the audio unit is powered off",
		},
		cli.BoolFlag{
			Name:  "serial",
			Usage: "Log text sent over the link port",
		},
		cli.StringFlag{
			Name:  "input",
			Usage: "Scripted input, e.g. \"60:start,200:+right,260:-right\" (frame:button, + press, - release, bare taps)",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
			Value: "info",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save state snapshots every N frames (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save state snapshots (default: temp directory)",
		},
	}
	app.Action = runEmulator

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	if err := setupLogging(c.String("log-level"), c.Bool("trace")); err != nil {
		return err
	}

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	frames := c.Int("frames")
	snapshotInterval := c.Int("snapshot-interval")
	snapshotDir := c.String("snapshot-dir")
	if snapshotInterval > 0 {
		var err error
		if snapshotDir, err = prepareSnapshotDir(snapshotDir); err != nil {
			return err
		}
	}

	// Extract ROM name for snapshot filenames
	romName := filepath.Base(romPath)
	romName = strings.TrimSuffix(romName, filepath.Ext(romName))

	script, err := input.ParseScript(c.String("input"))
	if err != nil {
		return err
	}

	var (
		emu    *jeebie.DMG
		inputs *input.Manager
	)
	opts := []jeebie.Option{
		jeebie.WithTrace(c.Bool("trace")),
		jeebie.WithAPUOptions(audio.WithWaveRAMClearedOnPowerOff(c.Bool("clear-wave-ram"))),
		jeebie.WithFrameHook(func(frame uint64) {
			inputs.Advance(frame)
			if snapshotInterval > 0 && frame%uint64(snapshotInterval) == 0 {
				path := filepath.Join(snapshotDir, fmt.Sprintf("%s_frame_%d.txt", romName, frame))
				if err := saveSnapshot(emu, path); err != nil {
					slog.Error("Failed to save snapshot", "frame", frame, "path", path, "error", err)
				} else {
					slog.Info("Saved state snapshot", "frame", frame, "path", path)
				}
			}
			if frame%60 == 0 {
				slog.Debug("Frame progress", "completed", frame, "total", frames)
			}
		}),
	}
	if path := c.String("save"); path != "" {
		opts = append(opts, jeebie.WithSavePath(path))
	}
	if c.Bool("no-save") {
		opts = append(opts, jeebie.WithoutSave())
	}

	var serialLog *serial.LogSink
	if c.Bool("serial") {
		serialLog = serial.NewLogSink(nil)
		opts = append(opts, jeebie.WithSerialSink(serialLog))
	}

	emu, err = jeebie.NewWithFile(romPath, opts...)
	if err != nil {
		return err
	}
	defer emu.Close()
	inputs = input.NewManager(emu, script)

	limiter := timing.NewNoOpLimiter()
	if c.Bool("realtime") {
		limiter = timing.NewAdaptiveLimiter(timing.FrameDuration())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("Running", "frames", frames, "realtime", c.Bool("realtime"),
		"snapshot_interval", snapshotInterval, "snapshot_dir", snapshotDir)

	err = emu.RunFrames(ctx, limiter, frames)
	if serialLog != nil {
		serialLog.Flush()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logSummary(emu)
	return nil
}

func setupLogging(level string, trace bool) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if trace {
		lvl = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})
	slog.SetDefault(slog.New(handler))
	return nil
}

func prepareSnapshotDir(dir string) (string, error) {
	if dir == "" {
		tempDir, err := os.MkdirTemp("", "jeebie-snapshots-*")
		if err != nil {
			return "", fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		return tempDir, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return dir, nil
}

func logSummary(emu *jeebie.DMG) {
	snapshot := emu.Snapshot()
	regs := snapshot.CPU.Registers

	slog.Info("Execution completed",
		"frames", emu.Frames(),
		"cycles", snapshot.CPU.Cycles,
		"state", snapshot.CPU.State,
		"pc", fmt.Sprintf("0x%04X", regs.PC),
		"sp", fmt.Sprintf("0x%04X", regs.SP),
		"af", fmt.Sprintf("0x%02X%02X", regs.A, regs.F),
		"flags", regs.FlagString(),
	)
	for i, ch := range snapshot.Audio.Channels {
		slog.Info("Audio channel", "channel", i+1, "enabled", ch.Enabled,
			"frequency", fmt.Sprintf("%.1f", ch.Frequency), "note", ch.Note, "volume", ch.Volume)
	}
}

// saveSnapshot writes the machine state as text.
func saveSnapshot(emu *jeebie.DMG, filename string) error {
	snapshot := emu.Snapshot()
	if snapshot == nil {
		return errors.New("emulator not initialised")
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writeSnapshot(file, emu.Frames(), snapshot)
	return nil
}

func writeSnapshot(w io.Writer, frame uint64, s *debug.Snapshot) {
	regs := s.CPU.Registers

	fmt.Fprintf(w, "# Game Boy State Snapshot\n")
	fmt.Fprintf(w, "# Frame: %d, Cycles: %d\n", frame, s.CPU.Cycles)
	fmt.Fprintf(w, "#\n")
	fmt.Fprintf(w, "A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X\n",
		regs.A, regs.F, regs.B, regs.C, regs.D, regs.E, regs.H, regs.L)
	fmt.Fprintf(w, "SP=%04X PC=%04X flags=%s state=%s IME=%t\n",
		regs.SP, regs.PC, regs.FlagString(), s.CPU.State, s.CPU.IME)
	fmt.Fprintf(w, "IE=%02X IF=%02X pending=%02X\n", s.InterruptEnable, s.InterruptFlags, s.CPU.Pending)

	fmt.Fprintf(w, "\nAudio: enabled=%t master=%d/%d sequencer=%d\n",
		s.Audio.APUEnabled, s.Audio.MasterVolume.Left, s.Audio.MasterVolume.Right, s.Audio.FrameSequencerStep)
	for i, ch := range s.Audio.Channels {
		fmt.Fprintf(w, "CH%d enabled=%t freq=%.1fHz note=%s volume=%d L=%t R=%t\n",
			i+1, ch.Enabled, ch.Frequency, ch.Note, ch.Volume, ch.Left, ch.Right)
	}

	fmt.Fprintf(w, "\nDisassembly:\n")
	for _, line := range s.Disassembly(8, 8) {
		fmt.Fprintln(w, disasm.FormatDisassemblyLine(line.DisassemblyLine, line.IsCurrent))
	}
}
