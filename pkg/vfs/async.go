package vfs

// Async wraps a FileSystem's synchronous operations so callers that want
// callback-style dispatch don't have to spin up their own goroutines
// (§5). Every method here runs the equivalent synchronous call on a
// fresh goroutine and delivers the result to cb once it returns; nothing
// about the underlying FileSystem itself becomes concurrency-safe by
// using it; callers touching the same FileSystem from multiple goroutines
// still own their own serialization.
type Async struct {
	fs *FileSystem
}

// NewAsync wraps fs for callback-style dispatch.
func NewAsync(fs *FileSystem) *Async { return &Async{fs: fs} }

func (a *Async) ReadFile(path string, cb func(data []byte, err error)) {
	go func() {
		data, err := a.fs.ReadFile(path)
		cb(data, err)
	}()
}

func (a *Async) WriteFile(path string, data []byte, perm uint32, cb func(err error)) {
	go func() {
		cb(a.fs.WriteFile(path, data, perm))
	}()
}

func (a *Async) AppendFile(path string, data []byte, perm uint32, cb func(err error)) {
	go func() {
		cb(a.fs.AppendFile(path, data, perm))
	}()
}

func (a *Async) Stat(path string, cb func(stat Stat, err error)) {
	go func() {
		s, err := a.fs.Stat(path)
		cb(s, err)
	}()
}

func (a *Async) Mkdir(path string, perm uint32, cb func(err error)) {
	go func() {
		cb(a.fs.Mkdir(path, perm))
	}()
}

func (a *Async) Rmdir(path string, cb func(err error)) {
	go func() {
		cb(a.fs.Rmdir(path))
	}()
}

func (a *Async) Unlink(path string, cb func(err error)) {
	go func() {
		cb(a.fs.Unlink(path))
	}()
}

func (a *Async) Rename(oldPath, newPath string, cb func(err error)) {
	go func() {
		cb(a.fs.Rename(oldPath, newPath))
	}()
}
