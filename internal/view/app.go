// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of infitab

package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/rs/zerolog"

	"github.com/infitab/infitab/internal/config"
	"github.com/infitab/infitab/internal/dao"
	"github.com/infitab/infitab/internal/logging"
	"github.com/infitab/infitab/internal/ui"
)

const (
	// FlashDelay sets the flash auto-clear delay.
	FlashDelay = 5 * time.Second

	mainPage = "main"
)

// FlashLevel represents flash message severity.
type FlashLevel int

const (
	// FlashInfo represents an info message.
	FlashInfo FlashLevel = iota
	// FlashWarn represents a warning message.
	FlashWarn
	// FlashErr represents an error message.
	FlashErr
)

// Flash handles flash messages in the application.
type Flash struct {
	*tview.TextView
	app    ui.Drawer
	text   string
	cancel context.CancelFunc
	mx     sync.RWMutex
}

// NewFlash creates a new Flash instance.
func NewFlash(app ui.Drawer) *Flash {
	f := &Flash{
		TextView: tview.NewTextView(),
		app:      app,
	}
	f.SetDynamicColors(true)
	f.SetTextAlign(tview.AlignLeft)
	f.SetBorderPadding(0, 0, 1, 1)
	f.SetBackgroundColor(tcell.ColorDefault)
	return f
}

// Info displays an informational message.
func (f *Flash) Info(msg string) {
	f.setMessage(FlashInfo, msg)
}

// Infof displays a formatted informational message.
func (f *Flash) Infof(format string, args ...any) {
	f.Info(fmt.Sprintf(format, args...))
}

// Warn displays a warning message.
func (f *Flash) Warn(msg string) {
	f.setMessage(FlashWarn, msg)
}

// Err displays an error message.
func (f *Flash) Err(err error) {
	if err != nil {
		f.setMessage(FlashErr, err.Error())
	}
}

// Errf displays a formatted error message.
func (f *Flash) Errf(format string, args ...any) {
	f.setMessage(FlashErr, fmt.Sprintf(format, args...))
}

// Message returns the message on display.
func (f *Flash) Message() string {
	f.mx.RLock()
	defer f.mx.RUnlock()
	return f.text
}

// Clear clears the flash message.
func (f *Flash) Clear() {
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.text = ""
	f.mx.Unlock()

	f.draw(func() {
		f.TextView.Clear()
	})
}

func (f *Flash) setMessage(level FlashLevel, msg string) {
	if msg == "" {
		f.Clear()
		return
	}

	text := fmt.Sprintf("%s %s", flashPrefix(level), msg)
	ctx, cancel := context.WithCancel(context.Background())

	f.mx.Lock()
	// Cancel any existing auto-clear timer
	if f.cancel != nil {
		f.cancel()
	}
	f.cancel = cancel
	f.text = text
	f.mx.Unlock()

	f.draw(func() {
		f.TextView.Clear()
		f.SetTextColor(flashColor(level))
		fmt.Fprint(f.TextView, tview.Escape(text))
	})

	go f.autoClear(ctx)
}

func (f *Flash) draw(fn func()) {
	if f.app != nil {
		f.app.QueueUpdateDraw(fn)
		return
	}
	fn()
}

func (f *Flash) autoClear(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(FlashDelay):
		f.Clear()
	}
}

func flashColor(level FlashLevel) tcell.Color {
	switch level {
	case FlashWarn:
		return tcell.ColorYellow
	case FlashErr:
		return tcell.ColorRed
	default:
		return tcell.ColorGreen
	}
}

func flashPrefix(level FlashLevel) string {
	switch level {
	case FlashWarn:
		return "[WARN]"
	case FlashErr:
		return "[ERROR]"
	default:
		return "[INFO]"
	}
}

// App represents the main application container.
type App struct {
	*tview.Application

	version   string
	config    *config.Config
	Main      *tview.Pages
	Content   *ui.Pages
	factory   dao.Factory
	menu      *ui.Menu
	crumbs    *ui.Crumbs
	indicator *ui.Indicator
	flash     *Flash
	ctx       context.Context
	cancel    context.CancelFunc
	running   bool
	logger    zerolog.Logger
	mx        sync.RWMutex
	drawMx    sync.Mutex
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, version string) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())
	app := App{
		Application: tview.NewApplication(),
		version:     version,
		config:      cfg,
		Main:        tview.NewPages(),
		Content:     ui.NewPages(),
		ctx:         ctx,
		cancel:      cancel,
		logger:      logging.NewLogger("view"),
	}

	app.flash = NewFlash(&app)
	app.menu = ui.NewMenu()
	app.crumbs = ui.NewCrumbs(app.Content.Stack)
	app.indicator = ui.NewIndicator(version)

	return &app
}

// Init wires the page stack listeners and builds the layout.
func (a *App) Init() error {
	if a.GetFactory() == nil {
		return fmt.Errorf("no backend factory configured")
	}

	a.Content.AddListener(a.menu)
	a.Content.AddListener(a.crumbs)
	a.Content.AddListener(a)

	a.Application.SetInputCapture(a.keyboard)
	a.EnableMouse(a.config.Infitab.UI.EnableMouse)

	a.Main.AddPage(mainPage, a.buildLayout(), true, true)
	a.SetRoot(a.Main, true)
	a.indicator.SetStatus(ui.Status{BaseURL: a.GetFactory().BaseURL()})

	return nil
}

// Run shows the table view and starts the event loop.
func (a *App) Run() error {
	a.mx.Lock()
	a.running = true
	a.mx.Unlock()

	if err := a.inject(NewTableView(a)); err != nil {
		return err
	}

	return a.Application.Run()
}

// Stop stops the application and cancels pending requests.
func (a *App) Stop() {
	a.mx.Lock()
	a.running = false
	a.mx.Unlock()

	a.cancel()
	a.Application.Stop()
}

// IsRunning returns whether the application is currently running.
func (a *App) IsRunning() bool {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return a.running
}

// Context returns the application context. It is cancelled on Stop.
func (a *App) Context() context.Context {
	return a.ctx
}

// Config returns the application configuration.
func (a *App) Config() *config.Config {
	return a.config
}

// Flash returns the flash message handler.
func (a *App) Flash() *Flash {
	return a.flash
}

// Indicator returns the status line.
func (a *App) Indicator() *ui.Indicator {
	return a.indicator
}

// GetFactory returns the backend factory.
func (a *App) GetFactory() dao.Factory {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return a.factory
}

// SetFactory sets the backend factory.
func (a *App) SetFactory(f dao.Factory) {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.factory = f
}

// QueueUpdateDraw queues a function to be executed on the UI thread.
// Before the event loop runs the function is called right away, one caller
// at a time.
func (a *App) QueueUpdateDraw(fn func()) {
	if !a.IsRunning() {
		a.drawMx.Lock()
		defer a.drawMx.Unlock()
		fn()
		return
	}
	go a.Application.QueueUpdateDraw(fn)
}

// ShowModal pushes a modal component over the current page.
func (a *App) ShowModal(c ui.Component) {
	if err := a.inject(c); err != nil {
		a.flash.Err(err)
	}
}

// Dismiss pops c if it is still on top of the stack.
func (a *App) Dismiss(c ui.Component) {
	if a.Content.Top() == c {
		a.Content.Pop()
	}
}

func (a *App) inject(c ui.Component) error {
	if err := c.Init(a.ctx); err != nil {
		a.logger.Error().Err(err).Str("component", c.Name()).Msg("component init failed")
		return fmt.Errorf("failed to initialize %s: %w", c.Name(), err)
	}
	a.Content.Push(c)

	return nil
}

// StackPushed starts the new top and gives it focus.
func (a *App) StackPushed(c ui.Component) {
	c.Start()
	a.SetFocus(c)
}

// StackPopped restarts the page uncovered by a non modal component.
func (a *App) StackPopped(o, top ui.Component) {
	if top == nil {
		return
	}
	if !ui.IsModal(o) {
		top.Start()
	}
	a.SetFocus(top)
}

// StackTop is a no-op.
func (*App) StackTop(ui.Component) {}

// buildLayout creates the main UI layout.
func (a *App) buildLayout() *tview.Flex {
	header, height := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.indicator, 1, 0, false), 1
	if !a.config.Infitab.UI.Crumbsless {
		header.AddItem(a.crumbs, 1, 0, false)
		height++
	}

	bottomBar := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.flash, 1, 0, false).
		AddItem(a.menu, 1, 0, false)

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, height, 0, false).
		AddItem(a.Content, 0, 1, true).
		AddItem(bottomBar, 2, 0, false)
}

// keyboard handles global keyboard events.
func (a *App) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if evt.Key() == tcell.KeyCtrlC {
		a.Stop()
		return nil
	}

	// Modals and help own their keys.
	top := a.Content.Top()
	if top == nil || ui.IsModal(top) || top.Name() == helpName {
		return evt
	}

	switch ui.AsKey(evt) {
	case ui.KeyHelp:
		a.showHelp()
		return nil
	case ui.KeyQ:
		a.Stop()
		return nil
	}

	return evt
}

// showHelp stacks the help page over the current view.
func (a *App) showHelp() {
	h := NewHelp()
	h.SetCloseFn(func() {
		a.Dismiss(h)
	})
	if err := a.inject(h); err != nil {
		a.flash.Err(err)
	}
}
