package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/urchin-editor/urchin/internal/color"
	"github.com/urchin-editor/urchin/internal/config"
	"github.com/urchin-editor/urchin/internal/event"
	"github.com/urchin-editor/urchin/internal/event/events"
	"github.com/urchin-editor/urchin/internal/fileio"
	"github.com/urchin-editor/urchin/internal/plugin"
	"github.com/urchin-editor/urchin/internal/runtimeinfo"
	"github.com/urchin-editor/urchin/internal/ui"
	"github.com/urchin-editor/urchin/internal/work"
)

// errQuit signals a normal user-requested exit.
var errQuit = errors.New("quit")

type options struct {
	configPath string
	logLevel   string
	pluginDir  string
	files      []string
}

// document is one open file. It is only touched on the screen goroutine.
type document struct {
	path   string
	lines  []string
	perm   os.FileMode
	offset int
}

// saveResult is posted back to the screen goroutine when a background save
// finishes.
type saveResult struct {
	path       string
	backupPath string
	size       int64
	err        error
}

type app struct {
	opts options
	info runtimeinfo.Info

	cfg  *config.Store
	bus  event.Bus
	loop *work.Loop
	host *plugin.Host
	pub  *event.Publisher

	screen  tcell.Screen
	theme   ui.Theme
	kb      *ui.Keybinder
	tips    *ui.TooltipManager
	helpTip *ui.Tooltip
	sb      *ui.Scrollbar

	docs   []*document
	active int
	status string
	saving bool

	loopCancel context.CancelFunc
	shutdown   bool
}

func newApp(opts options, info runtimeinfo.Info) (*app, error) {
	setupLogging(opts.logLevel, info)
	log.Info().Str("version", info.Version).Str("executable", info.Executable).Msg("starting")

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	bus := event.NewBus()
	if err := bus.Start(); err != nil {
		return nil, err
	}
	cfg.AttachPublisher(event.NewPublisher(bus, "config"))

	a := &app{
		opts: opts,
		info: info,
		cfg:  cfg,
		bus:  bus,
		loop: work.NewLoop(256),
		pub:  event.NewPublisher(bus, "app"),
		kb:   ui.NewKeybinder(event.NewPublisher(bus, "input")),
	}
	a.theme = themeFromSettings(cfg)
	a.tips = ui.NewTooltipManager(time.Duration(cfg.UI().TooltipDelayMS) * time.Millisecond)
	a.helpTip = &ui.Tooltip{
		Text:     "arrows/pgup/pgdn scroll, tab switches files, ctrl+s saves, q quits",
		X:        1,
		Y:        1,
		MaxWidth: 48,
	}
	a.tips.Set("help", a.helpTip)
	a.sb = ui.NewScrollbar("main", event.NewPublisher(bus, "view"))

	a.host = plugin.NewHost(bus)
	if opts.pluginDir != "" {
		if err := a.loadPlugins(opts.pluginDir); err != nil {
			return nil, err
		}
	}

	for _, path := range opts.files {
		doc, err := openDocument(a.pub, path)
		if err != nil {
			return nil, err
		}
		a.docs = append(a.docs, doc)
	}
	if len(a.docs) == 0 {
		a.docs = []*document{{path: "", lines: []string{""}, perm: 0o644}}
	}
	return a, nil
}

// setupLogging configures zerolog: console writer when attached to a
// terminal, JSON to stderr otherwise.
func setupLogging(level string, info runtimeinfo.Info) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if info.Interactive {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func themeFromSettings(cfg *config.Store) ui.Theme {
	theme := ui.DefaultTheme()
	uiCfg := cfg.UI()
	if c, err := color.Parse(uiCfg.Foreground); err == nil {
		theme.Foreground = c
	}
	if c, err := color.Parse(uiCfg.Background); err == nil {
		theme.Background = c
	}
	return theme
}

func (a *app) loadPlugins(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("plugin dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if err := a.host.Load(filepath.Join(dir, name)); err != nil {
			// A broken plugin must not take the editor down.
			log.Error().Err(err).Str("plugin", name).Msg("plugin load failed")
		}
	}
	return nil
}

func openDocument(pub *event.Publisher, path string) (*document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		data = nil
	}
	perm := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	}

	doc := &document{
		path:  path,
		lines: strings.Split(strings.TrimSuffix(string(data), "\n"), "\n"),
		perm:  perm,
	}
	err = pub.Publish(context.Background(), events.TopicFileOpened, events.FileOpened{
		Path: path,
		Size: int64(len(data)),
	})
	if err != nil {
		log.Warn().Err(err).Msg("file.opened publish failed")
	}
	return doc, nil
}

// Run drives the screen event loop. It returns errQuit on a normal exit.
func (a *app) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	a.screen = screen

	ctx, cancel := context.WithCancel(context.Background())
	a.loopCancel = cancel
	go a.loop.Run(ctx)

	if err := a.bindKeys(); err != nil {
		return err
	}

	quit := false
	for !quit {
		a.draw()
		screen.Show()

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventKey:
			if done, err := a.handleKey(ev); err != nil {
				return err
			} else if done {
				quit = true
			}
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventInterrupt:
			switch data := ev.Data().(type) {
			case saveResult:
				a.finishSave(data)
			case string:
				if data == "quit" {
					quit = true
				}
			}
		case nil:
			quit = true
		}
	}
	return errQuit
}

// bindKeys wires scroll and file-switching behavior through the bus. The
// dialog and quit paths stay direct: they must work even when the bus is
// mid-shutdown.
func (a *app) bindKeys() error {
	bindings := map[event.Topic]func(){
		"ui.key.up":       func() { a.scrollBy(-1) },
		"ui.key.down":     func() { a.scrollBy(1) },
		"ui.key.pageup":   func() { a.scrollBy(-a.pageSize()) },
		"ui.key.pagedown": func() { a.scrollBy(a.pageSize()) },
		"ui.key.home":     func() { a.doc().offset = 0 },
		"ui.key.end":      func() { a.doc().offset = a.maxOffset() },
	}
	for topic, fn := range bindings {
		fn := fn
		if _, err := a.bus.SubscribeFunc(topic, func(context.Context, any) error {
			fn()
			return nil
		}); err != nil {
			return err
		}
	}

	_, err := ui.BindTab(a.bus, func(context.Context) error {
		a.active = (a.active + 1) % len(a.docs)
		return nil
	})
	return err
}

func (a *app) handleKey(ev *tcell.EventKey) (quit bool, err error) {
	switch {
	case ev.Key() == tcell.KeyCtrlC:
		return true, nil
	case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
		return true, nil
	case ev.Key() == tcell.KeyCtrlS:
		a.startSave()
		return false, nil
	case ev.Key() == tcell.KeyRune && ev.Rune() == '?':
		if a.helpTip.Visible() {
			a.helpTip.Hide()
		} else {
			a.helpTip.Show()
		}
		return false, nil
	}
	if err := a.kb.Dispatch(context.Background(), ev); err != nil {
		log.Warn().Err(err).Msg("key dispatch failed")
	}
	return false, nil
}

func (a *app) doc() *document { return a.docs[a.active] }

func (a *app) pageSize() int {
	_, h := a.screen.Size()
	if h > 2 {
		return h - 2
	}
	return 1
}

func (a *app) maxOffset() int {
	max := len(a.doc().lines) - a.pageSize()
	if max < 0 {
		max = 0
	}
	return max
}

func (a *app) scrollBy(delta int) {
	doc := a.doc()
	doc.offset += delta
	if doc.offset < 0 {
		doc.offset = 0
	}
	if max := a.maxOffset(); doc.offset > max {
		doc.offset = max
	}
}

// startSave writes the active document on a worker goroutine. The result is
// marshaled back through the loop and then posted to the screen event queue,
// so document and status state stay on the screen goroutine.
func (a *app) startSave() {
	if a.saving {
		return
	}
	doc := a.doc()
	if doc.path == "" {
		a.status = "no path to save to"
		return
	}
	a.saving = true
	a.status = "saving " + doc.path

	path := doc.path
	perm := doc.perm
	data := []byte(strings.Join(doc.lines, "\n") + "\n")
	backups := a.cfg.Editor()

	future := work.Go(func() (saveResult, error) {
		res := saveResult{path: path, size: int64(len(data))}
		if !backups.BackupOnSave {
			return res, fileio.WriteFileAtomic(path, data, perm)
		}

		var opts []fileio.Option
		if backups.TimestampedBackups {
			opts = append(opts, fileio.WithTimestamp())
		}
		f, backupPath, err := fileio.BackupOpen(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm, opts...)
		if err != nil {
			return res, err
		}
		res.backupPath = backupPath
		if _, err := f.Write(data); err != nil {
			f.Close()
			return res, err
		}
		return res, f.Close()
	})

	future.Notify(a.loop, func(res saveResult, err error) {
		res.err = err
		a.screen.PostEvent(tcell.NewEventInterrupt(res))
	})
}

// finishSave runs on the screen goroutine with the outcome of a save.
func (a *app) finishSave(res saveResult) {
	a.saving = false
	if res.err != nil {
		a.status = "save failed"
		log.Error().Err(res.err).Str("path", res.path).Msg("save failed")
		dialog := ui.NewErrorDialog("Save failed", res.err.Error(), "")
		dialog.Run(a.screen, a.theme)
		return
	}

	a.status = "saved " + res.path
	ctx := context.Background()
	if res.backupPath != "" {
		err := a.pub.Publish(ctx, events.TopicFileBackedUp, events.FileBackedUp{
			Path:       res.path,
			BackupPath: res.backupPath,
		})
		if err != nil {
			log.Warn().Err(err).Msg("file.backedup publish failed")
		}
	}
	err := a.pub.Publish(ctx, events.TopicFileSaved, events.FileSaved{
		Path: res.path,
		Size: res.size,
	})
	if err != nil {
		log.Warn().Err(err).Msg("file.saved publish failed")
	}
}

func (a *app) draw() {
	screen := a.screen
	screen.Clear()
	w, h := screen.Size()
	if w < 2 || h < 2 {
		return
	}

	doc := a.doc()
	visible := h - 1
	tabSize := a.cfg.Editor().TabSize
	if tabSize <= 0 {
		tabSize = 4
	}

	base := a.theme.Style()
	for row := 0; row < visible; row++ {
		idx := doc.offset + row
		if idx >= len(doc.lines) {
			break
		}
		line := strings.ReplaceAll(doc.lines[idx], "\t", strings.Repeat(" ", tabSize))
		ui.DrawString(screen, 0, row, line, base)
	}

	if err := a.sb.Update(context.Background(), len(doc.lines), visible, doc.offset); err != nil {
		log.Warn().Err(err).Msg("scroll publish failed")
	}
	a.sb.Draw(screen, a.theme, w-1, 0, visible)

	name := doc.path
	if name == "" {
		name = "[no file]"
	}
	statusLine := fmt.Sprintf(" %s  (%d/%d)  %s", name, a.active+1, len(a.docs), a.status)
	statusStyle := base.Reverse(true)
	for col := 0; col < w; col++ {
		screen.SetContent(col, h-1, ' ', nil, statusStyle)
	}
	ui.DrawString(screen, 0, h-1, statusLine, statusStyle)

	a.tips.Draw(screen, a.theme)
}

// Quit requests shutdown from any goroutine.
func (a *app) Quit() {
	if a.screen != nil {
		a.screen.PostEvent(tcell.NewEventInterrupt("quit"))
	}
}

// Shutdown releases everything. Safe to call more than once.
func (a *app) Shutdown() {
	if a.shutdown {
		return
	}
	a.shutdown = true

	if a.screen != nil {
		a.screen.Fini()
	}
	a.host.Close()
	if a.loopCancel != nil {
		a.loopCancel()
	}
	a.loop.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.bus.Stop(ctx); err != nil && !errors.Is(err, event.ErrBusNotRunning) {
		log.Warn().Err(err).Msg("bus stop failed")
	}
	log.Info().Msg("shutdown complete")
}
