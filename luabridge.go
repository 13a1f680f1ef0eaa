package luabridge

import "fmt"

// Address is a virtual address inside the host process. Addresses produced
// by file-backed images are image-base-relative until rebased; addresses
// from a live library handle are absolute.
type Address uintptr

// IsNil reports whether the address is the zero address.
func (a Address) IsNil() bool { return a == 0 }

func (a Address) String() string { return fmt.Sprintf("0x%x", uintptr(a)) }

// ThreadID identifies an OS thread within the host process.
//
// On linux and windows this is the kernel thread id. On other platforms it
// degrades to a goroutine-derived id, which is still stable for a goroutine
// pinned with runtime.LockOSThread and therefore sufficient for ownership
// checks, but should be treated as diagnostic-grade in log output.
type ThreadID int64

// HostReturnCode is the integer return value the host's plugin ABI expects
// from every entry point it invokes. The host interprets it as the number of
// values the entry point left for the scripting runtime; 0 is always safe.
type HostReturnCode int32

// HostOK is the safe default return code: no values, no error, keep running.
const HostOK HostReturnCode = 0
