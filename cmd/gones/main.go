// Package main implements the gones NES emulator executable.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"gones/internal/app"
	"gones/internal/version"
)

const (
	exitOK       = 0
	exitBadArgs  = 1
	exitLoadErr  = 2
)

// breakpointList collects repeatable -breakpoint flags as parsed 16-bit
// addresses.
type breakpointList []uint16

func (b *breakpointList) String() string {
	parts := make([]string, len(*b))
	for i, addr := range *b {
		parts[i] = fmt.Sprintf("%04X", addr)
	}
	return strings.Join(parts, ",")
}

func (b *breakpointList) Set(value string) error {
	addr, err := strconv.ParseUint(strings.TrimPrefix(value, "0x"), 16, 16)
	if err != nil {
		return fmt.Errorf("invalid breakpoint address %q: %w", value, err)
	}
	*b = append(*b, uint16(addr))
	return nil
}

func main() {
	var breakpoints breakpointList

	var (
		romFile    = flag.String("rom", "", "Path to NES ROM file (optional for GUI mode)")
		configFile = flag.String("config", "", "Path to configuration file")
		debug      = flag.Bool("debug", false, "Enable debug mode")
		nogui      = flag.Bool("nogui", false, "Run without GUI (headless mode)")
		loader     = flag.String("loader", "nes", "ROM loader: ascii, bin, or nes")
		codeAddr   = flag.String("codeaddr", "", "Override the CPU entry point (hex), instead of the reset vector")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		quiet      = flag.Bool("quiet", false, "Suppress all non-error output")
		display    = flag.Bool("display", false, "Force GUI display even with -nogui")
		help       = flag.Bool("help", false, "Show help message")
		showVer    = flag.Bool("version", false, "Show version information")
	)
	flag.Var(&breakpoints, "breakpoint", "Stop execution at this address (hex, repeatable)")
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(exitOK)
	}

	if *showVer {
		version.PrintBuildInfo()
		os.Exit(exitOK)
	}

	if *verbose && *quiet {
		fmt.Fprintln(os.Stderr, "gones: -verbose and -quiet are mutually exclusive")
		os.Exit(exitBadArgs)
	}

	romPath := *romFile
	if flag.NArg() > 0 {
		romPath = flag.Arg(0)
	}

	if *loader != "nes" && *loader != "ascii" && *loader != "bin" {
		fmt.Fprintf(os.Stderr, "gones: unknown loader %q (want ascii, bin, nes)\n", *loader)
		os.Exit(exitBadArgs)
	}
	if *loader != "nes" && romPath != "" {
		fmt.Fprintf(os.Stderr, "gones: loader %q is not supported for ROM files, only iNES (.nes) images\n", *loader)
		os.Exit(exitBadArgs)
	}

	var entryOverride uint16
	var hasEntryOverride bool
	if *codeAddr != "" {
		addr, err := strconv.ParseUint(strings.TrimPrefix(*codeAddr, "0x"), 16, 16)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gones: invalid -codeaddr %q: %v\n", *codeAddr, err)
			os.Exit(exitBadArgs)
		}
		entryOverride = uint16(addr)
		hasEntryOverride = true
	}

	setupGracefulShutdown()

	logf := makeLogf(*verbose, *quiet)
	logf("gones - Go NES Emulator starting")

	configPath := *configFile
	if configPath == "" {
		configPath = app.GetDefaultConfigPath()
	}

	headless := *nogui && !*display
	application, err := app.NewApplicationWithMode(configPath, headless)
	if err != nil {
		log.Fatalf("failed to create application: %v", err)
	}

	if headless {
		config := application.GetConfig()
		config.Video.Backend = "headless"
		logf("headless mode requested")
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			log.Printf("application cleanup error: %v", err)
		}
	}()

	if *debug {
		config := application.GetConfig()
		config.UpdateDebug(true, true, true)
		application.ApplyDebugSettings()
		logf("debug mode enabled")
	}

	if romPath != "" {
		logf("loading ROM: %s", romPath)
		if err := application.LoadROM(romPath); err != nil {
			fmt.Fprintf(os.Stderr, "gones: failed to load ROM: %v\n", err)
			os.Exit(exitLoadErr)
		}
		logf("ROM loaded successfully")

		if *debug {
			application.ApplyDebugSettings()
		}

		if hasEntryOverride {
			application.GetBus().CPU.PC = entryOverride
		}
	}

	if headless {
		if romPath == "" {
			fmt.Fprintln(os.Stderr, "gones: ROM file required for headless mode")
			os.Exit(exitBadArgs)
		}
		os.Exit(runDebugSession(application, breakpoints, logf))
	}

	logf("starting GUI mode")
	if err := runGUIMode(application, logf); err != nil {
		log.Fatalf("GUI mode failed: %v", err)
	}

	logf("emulator shutting down")
}

// runDebugSession drives the bus directly, instruction by instruction,
// until a BRK opcode is fetched, a breakpoint address is reached, or
// maxInstructions instructions have run.
func runDebugSession(application *app.Application, breakpoints breakpointList, logf func(string, ...any)) int {
	b := application.GetBus()
	if b == nil || b.CPU == nil {
		fmt.Fprintln(os.Stderr, "gones: bus not initialized")
		return exitLoadErr
	}

	breakSet := make(map[uint16]bool, len(breakpoints))
	for _, addr := range breakpoints {
		breakSet[addr] = true
	}

	const maxInstructions = 50_000_000
	for i := 0; i < maxInstructions; i++ {
		pc := b.CPU.PC
		opcode := b.Memory.Read(pc)

		if breakSet[pc] {
			logf("breakpoint hit at $%04X", pc)
			return exitOK
		}

		b.Step()

		if opcode == 0x00 {
			logf("BRK encountered at $%04X", pc)
			return exitOK
		}
	}

	logf("instruction limit reached without BRK or breakpoint")
	return exitOK
}

// runGUIMode runs the full GUI application
func runGUIMode(application *app.Application, logf func(string, ...any)) error {
	config := application.GetConfig()
	windowWidth, windowHeight := config.GetWindowResolution()
	logf("window: %dx%d (scale %dx)", windowWidth, windowHeight, config.Window.Scale)
	logf("audio: %s (%d Hz, %.0f%% volume)",
		enabledString(config.Audio.Enabled),
		config.Audio.SampleRate,
		config.Audio.Volume*100)
	logf("video: %s, %s, vsync: %s",
		config.Video.Filter,
		config.Video.AspectRatio,
		enabledString(config.Video.VSync))

	if err := application.Run(); err != nil {
		return fmt.Errorf("application run failed: %w", err)
	}

	logf("session statistics: frames=%d uptime=%v avg_fps=%.1f",
		application.GetFrameCount(), application.GetUptime(), application.GetFPS())

	return nil
}

// makeLogf returns a logging function honoring -quiet: quiet suppresses
// it entirely, otherwise it always prints. The verbose argument does not
// change what it prints.
func makeLogf(verbose, quiet bool) func(string, ...any) {
	if quiet {
		return func(string, ...any) {}
	}
	return func(format string, args ...any) {
		fmt.Printf(format+"\n", args...)
	}
}

// setupGracefulShutdown sets up signal handling for graceful shutdown
func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Println("interrupt received, shutting down")
		os.Exit(exitOK)
	}()
}

// enabledString returns "enabled" or "disabled" based on boolean value
func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

func printUsage() {
	fmt.Println("gones - Go NES Emulator")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  gones [options] [rom]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  gones game.nes                        # Start with ROM loaded")
	fmt.Println("  gones -debug game.nes                 # Start with debug info enabled")
	fmt.Println("  gones -nogui -breakpoint C000 game.nes # Run headless until BRK or breakpoint")
	fmt.Println()
	fmt.Println("CONTROLS (Default):")
	fmt.Println("  Player 1:")
	fmt.Println("    Arrow Keys / WASD - D-Pad")
	fmt.Println("    J / Z             - A Button")
	fmt.Println("    K / X             - B Button")
	fmt.Println("    Enter             - Start")
	fmt.Println("    Space             - Select")
	fmt.Println()
	fmt.Println("  Special Keys:")
	fmt.Println("    Escape (2x)       - Quit (double-tap within 3 seconds)")
	fmt.Println("    F1-F10            - Save States")
	fmt.Println("    Shift+F1-F10      - Load States")
	fmt.Println("    F11               - Toggle Fullscreen")
	fmt.Println("    F12               - Screenshot")
	fmt.Println()
	fmt.Println("SUPPORTED FORMATS:")
	fmt.Println("  - iNES (.nes), NES 2.0")
}
