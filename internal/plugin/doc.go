// Package plugin hosts Lua extension scripts. A Host owns one Lua state and
// exposes a small "urchin" module to scripts: subscribing to editor events,
// publishing events, and logging. All Lua execution is serialized; event
// handlers run synchronously on whatever goroutine delivers the event, under
// the host's lock.
package plugin
