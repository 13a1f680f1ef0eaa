package image

import (
	luabridge "github.com/hostlink/lua-bridge"
)

// Fixture is an in-memory Image for tests: exports, ordinals and synthetic
// sections are declared up front so resolution is deterministic without a
// real host binary on disk.
type Fixture struct {
	path     string
	exports  map[string]luabridge.Address
	ordinals map[uint32]luabridge.Address
	sections map[string]*Section
}

func NewFixture(path string) *Fixture {
	return &Fixture{
		path:     path,
		exports:  make(map[string]luabridge.Address),
		ordinals: make(map[uint32]luabridge.Address),
		sections: make(map[string]*Section),
	}
}

func (f *Fixture) AddExport(name string, addr luabridge.Address) *Fixture {
	f.exports[name] = addr
	return f
}

func (f *Fixture) AddOrdinal(ordinal uint32, addr luabridge.Address) *Fixture {
	f.ordinals[ordinal] = addr
	return f
}

func (f *Fixture) AddSection(name string, addr luabridge.Address, data []byte) *Fixture {
	f.sections[name] = &Section{Name: name, Addr: addr, Data: data}
	return f
}

func (f *Fixture) Path() string { return f.path }

func (f *Fixture) Export(name string) (luabridge.Address, bool) {
	addr, ok := f.exports[name]
	return addr, ok
}

func (f *Fixture) ExportOrdinal(ordinal uint32) (luabridge.Address, bool) {
	addr, ok := f.ordinals[ordinal]
	return addr, ok
}

func (f *Fixture) Section(name string) (*Section, bool) {
	s, ok := f.sections[name]
	return s, ok
}
