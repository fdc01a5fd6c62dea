// Package gui is a raylib window frontend with a raygui toolbar.
// Every method must be called from the main OS thread.
package gui

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guslan/chip8"
)

const (
	ToolbarGap       = 5
	ToolbarBtnWidth  = 80
	ToolbarBtnHeight = 40
	ToolbarHeight    = 50
	ToolbarBtnOffset = ToolbarBtnWidth + ToolbarGap

	ScreenPositionX = 0
	ScreenPositionY = ToolbarHeight + 1

	MessageBarGap    = 5
	MessageBarHeight = 30

	// Smallest width that fits the toolbar
	MinWindowWidth = ToolbarGap + ToolbarBtnOffset*5
)

var MessageBarBgColor = rl.DarkGray
var MessageBarInfoColor = rl.SkyBlue
var MessageBarSuccessColor = rl.Lime
var MessageBarWarningColor = rl.Gold
var MessageBarErrorColor = rl.Red

type MessageType byte

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// App implements chip8.Display, chip8.Input and chip8.Buzzer
type App struct {
	Title string

	cpu    *chip8.Cpu
	config chip8.Config

	keyboardLookupMap map[int32]byte

	// Window width and height
	winW, winH int

	// Toolbar
	pauseBtn, stepBtn, resetBtn bool

	lastMessage      string
	lastMessageColor rl.Color

	beep      rl.Sound
	hasBeep   bool
	isBooted  bool
	isClosing bool
}

func NewApp(config chip8.Config, layout chip8.KeyboardLayout) *App {
	app := &App{
		Title:             "chip8",
		config:            config,
		keyboardLookupMap: keyCodes(layout),
		lastMessageColor:  MessageBarInfoColor,
	}
	app.winW, app.winH = windowSize(config)

	return app
}

// Attach gives the toolbar access to the cpu
func (app *App) Attach(cpu *chip8.Cpu) {
	app.cpu = cpu
}

// keyCodes maps the raylib key codes of the layout to the keypad codes.
// raylib uses the ASCII code of the uppercase letter.
func keyCodes(layout chip8.KeyboardLayout) map[int32]byte {
	m := map[int32]byte{}
	for r, k := range chip8.LookupMap(layout) {
		m[int32(unicode.ToUpper(r))] = k
	}

	return m
}

func windowSize(config chip8.Config) (int, int) {
	w, h := config.WindowSize()

	return max(w, MinWindowWidth), h + ToolbarHeight + MessageBarHeight
}

func (app *App) Close() {
	if !app.isBooted {
		return
	}
	if app.hasBeep {
		rl.UnloadSound(app.beep)
		rl.CloseAudioDevice()
	}
	rl.CloseWindow()
	app.isBooted = false
}

// Load reads a program from path and restarts the cpu with it
func (app *App) Load(path string) {
	if app.cpu == nil {
		return
	}

	if err := app.cpu.LoadFile(path); err != nil {
		slog.Error("loading program", slog.String("path", path), slog.Any("error", err))
		app.showMessage(err.Error(), MessageError)
		return
	}

	slog.Info("program loaded", slog.String("path", path))
	app.showMessage(fmt.Sprintf("Program '%s' loaded", path), MessageInfo)
}

func (app *App) handleFileLoad() {
	if !rl.IsFileDropped() {
		return
	}

	files := rl.LoadDroppedFiles()
	defer rl.UnloadDroppedFiles()

	slog.Info("files were dropped", slog.String("files", strings.Join(files, ",")))
	if len(files) > 0 {
		app.Load(files[0])
	}
}

func (app *App) handleActions(ctl chip8.Controller) {
	if app.pauseBtn {
		ctl.TogglePause()
	}
	if app.cpu == nil {
		return
	}
	if app.resetBtn {
		app.cpu.Reset()
		app.showMessage("Program restarted", MessageInfo)
		slog.Info("resetting the program to the beginning")
	}
	if app.stepBtn && app.cpu.State() == chip8.Paused {
		if err := app.cpu.Step(); err != nil {
			app.showMessage(err.Error(), MessageError)
			return
		}
		app.showMessage(app.cpu.Inst.String(), MessageInfo)
	}
}

func (app *App) drawToolbar() {
	rl.DrawRectangle(0, 0, int32(app.winW), ToolbarHeight, rl.Gray)

	paused := app.cpu != nil && app.cpu.State() == chip8.Paused

	pauseText := gui.IconText(gui.ICON_PLAYER_PAUSE, "Pause")
	if paused {
		pauseText = gui.IconText(gui.ICON_PLAYER_PLAY, "Resume")
	}
	app.pauseBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*0, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		pauseText,
	)
	app.stepBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*1, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_PLAYER_NEXT, "Step"),
	)
	app.resetBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*2, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_ROTATE, "Reset"),
	)

	state := "Running"
	if paused {
		state = "Paused"
	}
	gui.Label(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*3, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		state,
	)
	gui.Label(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*4, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		fmt.Sprintf("%d Hz", app.config.InstructionsPerSecond),
	)
}

func (app *App) showMessage(msg string, mType MessageType) {
	app.lastMessage = msg
	switch mType {
	case MessageInfo:
		app.lastMessageColor = MessageBarInfoColor

	case MessageSuccess:
		app.lastMessageColor = MessageBarSuccessColor

	case MessageWarning:
		app.lastMessageColor = MessageBarWarningColor

	case MessageError:
		app.lastMessageColor = MessageBarErrorColor
	}
}

func (app *App) drawMessageBar() {
	rl.DrawRectangle(
		0,
		int32(app.winH)-MessageBarHeight,
		int32(app.winW),
		MessageBarHeight,
		MessageBarBgColor,
	)

	rl.DrawText(
		app.lastMessage,
		MessageBarGap,
		int32(app.winH)-MessageBarHeight+MessageBarGap,
		16,
		app.lastMessageColor,
	)
}
