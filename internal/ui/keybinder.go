package ui

import (
	"context"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/urchin-editor/urchin/internal/event"
	"github.com/urchin-editor/urchin/internal/event/events"
)

// Keybinder translates terminal key events into bus topics under "ui.key".
// Handlers subscribe to "ui.key.tab", "ui.key.ctrl+s", or "ui.key.*" and get
// the events.KeyPressed payload. Sync delivery means a handler has finished
// before the next key is read, so bindings can safely mutate editor state.
type Keybinder struct {
	pub *event.Publisher
}

// NewKeybinder creates a Keybinder publishing through pub.
func NewKeybinder(pub *event.Publisher) *Keybinder {
	return &Keybinder{pub: pub}
}

// Dispatch names the key event and publishes it under its own topic. Keys
// that have no stable name are dropped.
func (kb *Keybinder) Dispatch(ctx context.Context, ev *tcell.EventKey) error {
	name, r := KeyName(ev)
	if name == "" {
		return nil
	}
	topic := events.TopicKeyPressed.Child(name)
	return kb.pub.Publish(ctx, topic, events.KeyPressed{Name: name, Rune: r})
}

// BindTab subscribes fn to the tab key. The subscription replaces any prior
// tab binding so modes can take over the key and restore it on exit.
func BindTab(bus event.Bus, fn func(context.Context) error) (event.Subscription, error) {
	return bus.SubscribeFunc(events.TopicKeyTab, func(ctx context.Context, _ any) error {
		return fn(ctx)
	}, event.WithReplace())
}

// KeyName returns the stable topic segment for a key event and its rune, if
// printable. Names are lowercase with "+"-joined modifiers, matching what
// key binding settings use.
func KeyName(ev *tcell.EventKey) (string, rune) {
	var base string
	var r rune

	switch ev.Key() {
	case tcell.KeyTab:
		base = "tab"
	case tcell.KeyBacktab:
		base = "shift+tab"
	case tcell.KeyEnter:
		base = "enter"
	case tcell.KeyEscape:
		base = "escape"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		base = "backspace"
	case tcell.KeyDelete:
		base = "delete"
	case tcell.KeyUp:
		base = "up"
	case tcell.KeyDown:
		base = "down"
	case tcell.KeyLeft:
		base = "left"
	case tcell.KeyRight:
		base = "right"
	case tcell.KeyHome:
		base = "home"
	case tcell.KeyEnd:
		base = "end"
	case tcell.KeyPgUp:
		base = "pageup"
	case tcell.KeyPgDn:
		base = "pagedown"
	case tcell.KeyRune:
		r = ev.Rune()
		switch r {
		case ' ':
			base = "space"
		case '.':
			// Would collide with the topic separator.
			base = "period"
		case '*':
			base = "asterisk"
		default:
			base = string(r)
		}
	default:
		if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
			base = "ctrl+" + string(rune('a'+ev.Key()-tcell.KeyCtrlA))
		}
	}
	if base == "" {
		return "", 0
	}

	var mods []string
	m := ev.Modifiers()
	if m&tcell.ModCtrl != 0 && !strings.HasPrefix(base, "ctrl+") {
		mods = append(mods, "ctrl")
	}
	if m&tcell.ModAlt != 0 {
		mods = append(mods, "alt")
	}
	if len(mods) > 0 {
		base = strings.Join(mods, "+") + "+" + base
	}
	return base, r
}
