package world

import (
	"github.com/Faultbox/experience/internal/engine/resources"
	"github.com/Faultbox/experience/internal/events"
)

// watchSource calls fn exactly once for the named source: as soon as it is
// in the registry, or on "ready" with ok false when it never arrived. A
// failing unrelated source blocks "ready" but not fn.
func watchSource(assets *resources.Loader, name string, fn func(asset resources.Asset, ok bool)) {
	if name != "" {
		if asset, ok := assets.Get(name); ok {
			fn(asset, true)
			return
		}
	}

	var progress, ready events.ListenerID
	done := false
	finish := func(asset resources.Asset, ok bool) {
		if done {
			return
		}
		done = true
		assets.Off(events.EventProgress, progress)
		assets.Off(events.EventReady, ready)
		fn(asset, ok)
	}
	progress = assets.On(events.EventProgress, func(...any) {
		if name == "" {
			return
		}
		if asset, ok := assets.Get(name); ok {
			finish(asset, true)
		}
	})
	ready = assets.Once(events.EventReady, func(...any) {
		asset, ok := assets.Get(name)
		finish(asset, ok && name != "")
	})
}

// firstSource returns name when set, otherwise the first source of type t.
func firstSource(assets *resources.Loader, name string, t resources.Type) string {
	if name != "" {
		return name
	}
	for _, src := range assets.Sources() {
		if src.Type == t {
			return src.Name
		}
	}
	return ""
}
