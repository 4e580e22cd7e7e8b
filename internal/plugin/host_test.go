package plugin

import (
	"context"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/urchin-editor/urchin/internal/event"
	"github.com/urchin-editor/urchin/internal/event/events"
)

func startedBus(t *testing.T) event.Bus {
	t.Helper()
	b := event.NewBus()
	if err := b.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = b.Stop(ctx)
	})
	return b
}

func newTestHost(t *testing.T) (*Host, event.Bus) {
	t.Helper()
	b := startedBus(t)
	h := NewHost(b)
	t.Cleanup(h.Close)
	return h, b
}

func TestHost_SubscribeReceivesEvent(t *testing.T) {
	h, b := newTestHost(t)

	script := `
		local urchin = require("urchin")
		seen = {}
		urchin.subscribe("config.changed", function(topic, payload, meta)
			seen.topic = topic
			seen.key = payload.Key
			seen.source = meta.Source
		end)
	`
	if err := h.LoadString("sub.lua", script); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	pub := event.NewPublisher(b, "config")
	err := pub.Publish(context.Background(), events.TopicConfigChanged, events.ConfigChanged{
		Key: "ui.theme",
		Old: `"dusk"`,
		New: `"noon"`,
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	h.mu.Lock()
	seen := h.L.GetGlobal("seen").(*lua.LTable)
	topic := lua.LVAsString(seen.RawGetString("topic"))
	key := lua.LVAsString(seen.RawGetString("key"))
	source := lua.LVAsString(seen.RawGetString("source"))
	h.mu.Unlock()

	if topic != "config.changed" {
		t.Errorf("topic = %q", topic)
	}
	if key != "ui.theme" {
		t.Errorf("payload.Key = %q", key)
	}
	if source != "config" {
		t.Errorf("meta.Source = %q", source)
	}
}

func TestHost_PublishFromScript(t *testing.T) {
	h, b := newTestHost(t)

	var got map[string]any
	if _, err := b.SubscribeFunc("plugin.announce", func(_ context.Context, e any) error {
		got = e.(event.Envelope).Payload.(map[string]any)
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	script := `
		local urchin = require("urchin")
		urchin.publish("plugin.announce", {name = "hello", version = 2})
	`
	if err := h.LoadString("pub.lua", script); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got == nil {
		t.Fatal("published event never delivered")
	}
	if got["name"] != "hello" {
		t.Errorf("name = %v", got["name"])
	}
	if got["version"] != int64(2) {
		t.Errorf("version = %v (%T)", got["version"], got["version"])
	}
}

func TestHost_PublishFromHandlerDoesNotDeadlock(t *testing.T) {
	h, b := newTestHost(t)

	var relayed int
	if _, err := b.SubscribeFunc("plugin.relay", func(context.Context, any) error {
		relayed++
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	script := `
		local urchin = require("urchin")
		urchin.subscribe("ui.key.tab", function(topic, payload, meta)
			urchin.publish("plugin.relay", {key = payload.Name})
		end)
	`
	if err := h.LoadString("relay.lua", script); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	pub := event.NewPublisher(b, "input")
	done := make(chan error, 1)
	go func() {
		done <- pub.Publish(context.Background(), events.TopicKeyTab, events.KeyPressed{Name: "tab"})
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("publish failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("publish deadlocked")
	}

	if relayed != 1 {
		t.Errorf("relay handler fired %d times, want 1", relayed)
	}
}

func TestHost_Unsubscribe(t *testing.T) {
	h, b := newTestHost(t)

	script := `
		local urchin = require("urchin")
		count = 0
		sub = urchin.subscribe("ui.key.tab", function() count = count + 1 end)
	`
	if err := h.LoadString("unsub.lua", script); err != nil {
		t.Fatal(err)
	}

	pub := event.NewPublisher(b, "input")
	ctx := context.Background()
	if err := pub.Publish(ctx, events.TopicKeyTab, events.KeyPressed{Name: "tab"}); err != nil {
		t.Fatal(err)
	}
	if err := h.LoadString("unsub2.lua", `require("urchin").unsubscribe(sub)`); err != nil {
		t.Fatal(err)
	}
	if err := pub.Publish(ctx, events.TopicKeyTab, events.KeyPressed{Name: "tab"}); err != nil {
		t.Fatal(err)
	}

	h.mu.Lock()
	count := int(lua.LVAsNumber(h.L.GetGlobal("count")))
	h.mu.Unlock()
	if count != 1 {
		t.Errorf("handler fired %d times after unsubscribe, want 1", count)
	}
}

func TestHost_HandlerErrorReported(t *testing.T) {
	h, b := newTestHost(t)

	script := `
		local urchin = require("urchin")
		urchin.subscribe("ui.key.tab", function() error("boom") end)
	`
	if err := h.LoadString("err.lua", script); err != nil {
		t.Fatal(err)
	}

	pub := event.NewPublisher(b, "input")
	if err := pub.Publish(context.Background(), events.TopicKeyTab, events.KeyPressed{Name: "tab"}); err != nil {
		t.Fatalf("publish returned %v; handler errors must not fail publication", err)
	}
	if got := b.Stats().HandlerErrors; got != 1 {
		t.Errorf("HandlerErrors = %d, want 1", got)
	}
}

func TestHost_LoadBadScript(t *testing.T) {
	h, _ := newTestHost(t)
	if err := h.LoadString("bad.lua", "this is not lua"); err == nil {
		t.Error("LoadString succeeded on invalid source")
	}
}

func TestHost_ClosedHostRejectsLoad(t *testing.T) {
	b := startedBus(t)
	h := NewHost(b)
	h.Close()
	if err := h.LoadString("late.lua", "x = 1"); err != ErrHostClosed {
		t.Errorf("err = %v, want ErrHostClosed", err)
	}
}

func TestBridge_RoundTrip(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	lv := toLua(L, map[string]any{
		"name":  "urchin",
		"count": 3,
		"tags":  []string{"a", "b"},
	})
	got, ok := toGo(lv).(map[string]any)
	if !ok {
		t.Fatalf("toGo returned %T, want map", toGo(lv))
	}
	if got["name"] != "urchin" {
		t.Errorf("name = %v", got["name"])
	}
	if got["count"] != int64(3) {
		t.Errorf("count = %v (%T)", got["count"], got["count"])
	}
	tags, ok := got["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" {
		t.Errorf("tags = %v", got["tags"])
	}
}

func TestBridge_StructToLua(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	lv := toLua(L, events.KeyPressed{Name: "tab", Rune: 0})
	tbl, ok := lv.(*lua.LTable)
	if !ok {
		t.Fatalf("toLua returned %T, want table", lv)
	}
	if got := lua.LVAsString(tbl.RawGetString("Name")); got != "tab" {
		t.Errorf("Name = %q", got)
	}
}

func TestBridge_CycleBroken(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(`t = {x = 1}; t.self = t`); err != nil {
		t.Fatal(err)
	}
	got, ok := toGo(L.GetGlobal("t")).(map[string]any)
	if !ok {
		t.Fatal("cyclic table did not convert to map")
	}
	if got["x"] != int64(1) {
		t.Errorf("x = %v", got["x"])
	}
	if got["self"] != nil {
		t.Errorf("cycle not broken: self = %v", got["self"])
	}
}
