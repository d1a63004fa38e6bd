// Package watcher turns recursive filesystem creation notifications into a
// serialized stream of pipeline events.
//
// One goroutine filters raw fsnotify notifications (directories are added to
// the watch set, unsupported extensions dropped) and a second consumes the
// buffered event queue, invoking the handler for one event at a time so
// creation bursts are processed sequentially in arrival order.
package watcher
