//go:build windows

package luabridge

import "golang.org/x/sys/windows"

// CurrentThreadID returns the id of the calling OS thread.
func CurrentThreadID() ThreadID {
	return ThreadID(windows.GetCurrentThreadId())
}
