//go:build !linux && !windows

package luabridge

import (
	"bytes"
	"runtime"
	"strconv"
)

// CurrentThreadID returns a goroutine-derived id on platforms without a
// cheap thread-id syscall. For a goroutine pinned to its OS thread this is
// as stable as a real thread id, which is all the ownership checks need.
func CurrentThreadID() ThreadID {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	// First line is "goroutine N [running]:".
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	if i := bytes.IndexByte(buf, ' '); i > 0 {
		if id, err := strconv.ParseInt(string(buf[:i]), 10, 64); err == nil {
			return ThreadID(id)
		}
	}
	return -1
}
