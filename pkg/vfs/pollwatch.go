package vfs

import "time"

// realTimers is the default FileSystemTimers implementation, backed by a
// real time.Ticker. Tests typically inject a fake instead.
type realTimers struct{}

func (realTimers) SetInterval(cb func(), d time.Duration) any {
	t := time.NewTicker(d)
	go func() {
		for range t.C {
			cb()
		}
	}()
	return t
}

func (realTimers) ClearInterval(handle any) {
	if t, ok := handle.(*time.Ticker); ok {
		t.Stop()
	}
}

type pollListener struct {
	id     int
	fn     func(current, previous Stat)
	handle any
}

type pollWatch struct {
	prev      Stat
	listeners []*pollListener
}

// WatchFile registers a listener that fires whenever path's stat record
// changes, polled at the given interval via the filesystem's injected
// FileSystemTimers (§4.7). If path does not currently exist, an initial
// (empty, empty) event is delivered synchronously before the timer
// starts. Returns an id usable with UnwatchFile to remove just this
// listener (Go function values aren't comparable, so an id substitutes
// for passing the listener itself as the spec's source does).
func (fs *FileSystem) WatchFile(path string, interval time.Duration, listener func(current, previous Stat)) int {
	current, err := fs.Stat(path)
	if err != nil {
		listener(Stat{}, Stat{})
		current = Stat{}
	}

	pw, ok := fs.pollWatches[path]
	if !ok {
		pw = &pollWatch{prev: current}
		fs.pollWatches[path] = pw
	}

	id := nextFd()
	pl := &pollListener{id: id, fn: listener}
	pw.listeners = append(pw.listeners, pl)
	pl.handle = fs.timers.SetInterval(func() {
		fs.pollTick(path)
	}, interval)
	return id
}

func (fs *FileSystem) pollTick(path string) {
	pw, ok := fs.pollWatches[path]
	if !ok {
		return
	}
	current, err := fs.Stat(path)
	if err != nil {
		current = Stat{}
	}
	if current == pw.prev {
		return
	}
	previous := pw.prev
	pw.prev = current
	for _, pl := range pw.listeners {
		pl.fn(current, previous)
	}
}

// UnwatchFile clears the poll timer(s) registered on path. With no ids,
// every listener on path is removed; otherwise only the matching ones.
func (fs *FileSystem) UnwatchFile(path string, ids ...int) {
	pw, ok := fs.pollWatches[path]
	if !ok {
		return
	}
	if len(ids) == 0 {
		for _, pl := range pw.listeners {
			fs.timers.ClearInterval(pl.handle)
		}
		delete(fs.pollWatches, path)
		return
	}
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	remaining := pw.listeners[:0]
	for _, pl := range pw.listeners {
		if want[pl.id] {
			fs.timers.ClearInterval(pl.handle)
			continue
		}
		remaining = append(remaining, pl)
	}
	pw.listeners = remaining
	if len(pw.listeners) == 0 {
		delete(fs.pollWatches, path)
	}
}
