package image

import (
	luabridge "github.com/hostlink/lua-bridge"
)

// Section is a contiguous named region of an image: raw bytes plus the
// virtual address they occupy.
type Section struct {
	Name string
	Addr luabridge.Address
	Data []byte
}

// Contains reports whether the virtual address falls inside the section.
func (s *Section) Contains(addr luabridge.Address) bool {
	return addr >= s.Addr && addr < s.Addr+luabridge.Address(len(s.Data))
}

// Image is a read-only view of one loaded host binary.
//
// Export resolves a platform-mangled export name to an address. Section
// returns a named section's bytes for pattern scanning; implementations
// without access to section data (live library handles) report absence
// rather than failing.
type Image interface {
	Export(name string) (luabridge.Address, bool)
	Section(name string) (*Section, bool)
	Path() string
}

// OrdinalExporter is implemented by images whose format exports symbols by
// ordinal as well as by name (PE, and fixtures standing in for one).
type OrdinalExporter interface {
	ExportOrdinal(ordinal uint32) (luabridge.Address, bool)
}
