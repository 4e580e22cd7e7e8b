package plugin

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/urchin-editor/urchin/internal/event"
)

// Host runs Lua plugin scripts against one shared Lua state.
type Host struct {
	mu   sync.Mutex
	L    *lua.LState
	bus  event.Bus
	pub  *event.Publisher
	subs map[string]event.Subscription

	// pending collects publishes issued from inside a Lua call. They are
	// flushed after the state lock is released so sync delivery back into a
	// Lua handler re-locks cleanly instead of deadlocking.
	pending []pendingEvent

	closed bool
}

type pendingEvent struct {
	topic   event.Topic
	payload any
}

// NewHost creates a plugin host wired to the given bus.
func NewHost(bus event.Bus) *Host {
	h := &Host{
		L:    lua.NewState(),
		bus:  bus,
		pub:  event.NewPublisher(bus, "plugin"),
		subs: make(map[string]event.Subscription),
	}
	h.L.PreloadModule("urchin", h.openModule)
	return h
}

// Load runs a plugin script from a file.
func (h *Host) Load(path string) error {
	err := h.withState(func() error { return h.L.DoFile(path) })
	if err != nil {
		return fmt.Errorf("plugin %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("plugin loaded")
	return nil
}

// LoadString runs a plugin script from source. name labels errors.
func (h *Host) LoadString(name, src string) error {
	err := h.withState(func() error { return h.L.DoString(src) })
	if err != nil {
		return fmt.Errorf("plugin %s: %w", name, err)
	}
	return nil
}

// Close cancels all plugin subscriptions and shuts the Lua state down.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, sub := range h.subs {
		sub.Cancel()
	}
	h.subs = make(map[string]event.Subscription)
	h.pending = nil
	h.L.Close()
}

// withState runs fn under the state lock, then flushes the publishes Lua
// code queued while it ran.
func (h *Host) withState(fn func() error) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHostClosed
	}
	err := fn()
	queued := h.pending
	h.pending = nil
	h.mu.Unlock()

	for _, pe := range queued {
		if perr := h.pub.Publish(context.Background(), pe.topic, pe.payload); perr != nil {
			log.Warn().Err(perr).Str("topic", string(pe.topic)).Msg("plugin publish failed")
		}
	}
	return err
}

// ErrHostClosed is returned when the host has been shut down.
var ErrHostClosed = fmt.Errorf("plugin: host closed")

// openModule builds the "urchin" table scripts require().
func (h *Host) openModule(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"subscribe":   h.luaSubscribe,
		"unsubscribe": h.luaUnsubscribe,
		"publish":     h.luaPublish,
		"log":         h.luaLog,
	})
	L.Push(mod)
	return 1
}

// luaSubscribe binds a Lua function to a topic pattern and returns the
// subscription id. The handler receives (topic, payload, meta).
func (h *Host) luaSubscribe(L *lua.LState) int {
	pattern := event.Topic(L.CheckString(1))
	fn := L.CheckFunction(2)

	sub, err := h.bus.SubscribeFunc(pattern, func(_ context.Context, e any) error {
		return h.dispatch(fn, e)
	})
	if err != nil {
		L.RaiseError("subscribe %s: %s", pattern, err.Error())
		return 0
	}
	h.subs[sub.ID()] = sub
	L.Push(lua.LString(sub.ID()))
	return 1
}

func (h *Host) luaUnsubscribe(L *lua.LState) int {
	id := L.CheckString(1)
	if sub, ok := h.subs[id]; ok {
		sub.Cancel()
		delete(h.subs, id)
	}
	return 0
}

// luaPublish queues a payload for publication once the current Lua call
// finishes.
func (h *Host) luaPublish(L *lua.LState) int {
	topic := event.Topic(L.CheckString(1))
	if !topic.IsValid() {
		L.RaiseError("publish: invalid topic %q", string(topic))
		return 0
	}
	h.pending = append(h.pending, pendingEvent{topic: topic, payload: toGo(L.Get(2))})
	return 0
}

func (h *Host) luaLog(L *lua.LState) int {
	msg := L.CheckString(1)
	log.Info().Str("source", "plugin").Msg(msg)
	return 0
}

// dispatch invokes a Lua event handler with (topic, payload, meta).
func (h *Host) dispatch(fn *lua.LFunction, e any) error {
	return h.withState(func() error {
		topic, payload, meta := unpack(e)

		h.L.Push(fn)
		h.L.Push(lua.LString(topic))
		h.L.Push(toLua(h.L, payload))
		h.L.Push(toLua(h.L, meta))
		if err := h.L.PCall(3, 0, nil); err != nil {
			log.Error().Err(err).Str("topic", string(topic)).Msg("plugin handler failed")
			return err
		}
		return nil
	})
}

// unpack splits an event into topic, payload, and metadata for Lua.
func unpack(e any) (event.Topic, any, any) {
	var topic event.Topic
	if tp, ok := e.(event.TopicProvider); ok {
		topic = tp.EventTopic()
	}
	var meta any
	if mp, ok := e.(event.MetadataProvider); ok {
		meta = mp.EventMetadata()
	}
	if env, ok := e.(event.Envelope); ok {
		return topic, env.Payload, meta
	}
	return topic, e, meta
}
