//go:build linux

package luabridge

import "golang.org/x/sys/unix"

// CurrentThreadID returns the kernel thread id of the calling OS thread.
func CurrentThreadID() ThreadID {
	return ThreadID(unix.Gettid())
}
