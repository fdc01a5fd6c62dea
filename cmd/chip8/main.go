package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/guslan/chip8"
	"github.com/guslan/chip8/audio"
	"github.com/guslan/chip8/gui"
	"github.com/guslan/chip8/sdlgui"
	"github.com/guslan/chip8/tty"
	"github.com/guslan/chip8/web"
)

var logLevel = new(slog.LevelVar)

func init() {
	// raylib and SDL must be driven from the main thread
	runtime.LockOSThread()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

type options struct {
	config   chip8.Config
	frontend string
	port     uint
	debug    bool
	mute     bool
	romPath  string
}

func parseFlags(args []string, output io.Writer) (options, error) {
	opts := options{config: chip8.DefaultConfig()}

	fs := flag.NewFlagSet("chip8", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: chip8 [options] <rom>\n\n")
		fs.PrintDefaults()
	}

	fs.IntVar(&opts.config.Scale, "scale", chip8.DefaultScale, "Size in screen pixels of a console pixel.")
	fs.Var(&opts.config.Foreground, "fg", "Color of the pixels that are on, as 0xRRGGBBAA.")
	fs.Var(&opts.config.Background, "bg", "Color of the pixels that are off, as 0xRRGGBBAA.")
	fs.UintVar(&opts.config.InstructionsPerSecond, "rate", chip8.DefaultSpeed, "Instructions executed per second.")
	fs.BoolVar(&opts.config.Trace, "trace", false, "Log every executed instruction (implies -debug).")
	fs.StringVar(&opts.frontend, "frontend", "raylib", "One of raylib, sdl, term or web.")
	fs.UintVar(&opts.port, "port", web.DefaultPort, "Port of the web frontend.")
	fs.BoolVar(&opts.debug, "debug", false, "Show debug information.")
	fs.BoolVar(&opts.mute, "mute", false, "Disable the buzzer.")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return opts, errors.New("expected exactly one ROM path")
	}
	opts.romPath = fs.Arg(0)

	switch opts.frontend {
	case "raylib", "sdl", "term", "web":
	default:
		return opts, fmt.Errorf("%w: unknown frontend %q", chip8.ErrInvalidConfig, opts.frontend)
	}

	if err := opts.config.Validate(); err != nil {
		return opts, err
	}

	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		slog.Error("invalid arguments", slog.Any("error", err))
		os.Exit(1)
	}

	if opts.debug || opts.config.Trace {
		logLevel.Set(slog.LevelDebug)
	}

	if err := run(opts); err != nil {
		slog.Error("exiting", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		display chip8.Display
		input   chip8.Input
		buzzer  chip8.Buzzer
		attach  func(cpu *chip8.Cpu)
	)

	switch opts.frontend {
	case "raylib":
		app := gui.NewApp(opts.config, chip8.DefaultKeyboardLayout)
		defer app.Close()
		display, input, attach = app, app, app.Attach
		// the window has its own audio device
		buzzer = app

	case "sdl":
		win := sdlgui.NewWindow(opts.config, chip8.DefaultKeyboardLayout)
		defer win.Close()
		display, input = win, win

	case "term":
		disp := tty.NewDisplay()
		defer disp.Close()
		kb := tty.NewKeyboard("/dev/tty")
		defer kb.Close()
		display, input = disp, kb
		// keep the screen clean
		if !opts.debug && !opts.config.Trace {
			logLevel.Set(slog.LevelError)
		}

	case "web":
		server := web.NewServer()
		display, input, attach = server, server, server.Attach

		addr := fmt.Sprintf(":%d", opts.port)
		slog.Info("serving", slog.String("url", fmt.Sprintf("http://localhost%s", addr)))
		go func() {
			if err := server.Listen(ctx, addr); err != nil {
				slog.Error("web server stopped", slog.Any("error", err))
				stop()
			}
		}()
	}

	switch {
	case opts.mute:
		buzzer = chip8.NewDummyBuzzer()
	case buzzer == nil:
		beeper := audio.NewBeeper()
		defer beeper.Close()
		buzzer = beeper
	}

	cpu := chip8.NewCpu(display, input, buzzer, func(c *chip8.Config) {
		*c = opts.config
	})
	if attach != nil {
		attach(cpu)
	}

	if err := cpu.LoadFile(opts.romPath); err != nil {
		return err
	}

	if err := cpu.Boot(); err != nil {
		return err
	}

	err := cpu.Run(ctx)
	if errors.Is(err, context.Canceled) {
		slog.Info("interrupted")
		return nil
	}

	return err
}
