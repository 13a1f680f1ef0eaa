package image

import (
	"bytes"
	"debug/elf"
	"os"

	luabridge "github.com/hostlink/lua-bridge"
	"github.com/hostlink/lua-bridge/errors"
)

var (
	elfMagic = []byte{0x7f, 'E', 'L', 'F'}
	peMagic  = []byte{'M', 'Z'}
)

// FileImage is an Image parsed from an on-disk host binary. Section bytes
// are read eagerly so the file handle is released before resolution starts.
// Addresses are the binary's own virtual addresses (image-base-relative for
// position-independent builds); callers rebase against the live mapping.
type FileImage struct {
	path     string
	exports  map[string]luabridge.Address
	ordinals map[uint32]luabridge.Address
	sections []*Section
}

// OpenFile parses the binary at path. The format is detected from magic
// bytes; ELF and PE are supported.
func OpenFile(path string) (*FileImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseImage, errors.KindInvalidInput, err, "read host binary")
	}

	switch {
	case bytes.HasPrefix(data, elfMagic):
		return parseELF(path, data)
	case bytes.HasPrefix(data, peMagic):
		return parsePE(path, data)
	default:
		return nil, errors.InvalidInput(errors.PhaseImage, "unrecognized binary format: "+path)
	}
}

func (f *FileImage) Path() string { return f.path }

func (f *FileImage) Export(name string) (luabridge.Address, bool) {
	addr, ok := f.exports[name]
	return addr, ok
}

func (f *FileImage) ExportOrdinal(ordinal uint32) (luabridge.Address, bool) {
	addr, ok := f.ordinals[ordinal]
	return addr, ok
}

func (f *FileImage) Section(name string) (*Section, bool) {
	for _, s := range f.sections {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// SectionNames lists the sections carrying bytes, in file order.
func (f *FileImage) SectionNames() []string {
	names := make([]string, len(f.sections))
	for i, s := range f.sections {
		names[i] = s.Name
	}
	return names
}

func parseELF(path string, data []byte) (*FileImage, error) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseImage, errors.KindInvalidInput, err, "parse ELF")
	}
	defer f.Close()

	img := &FileImage{
		path:    path,
		exports: make(map[string]luabridge.Address),
	}

	// Dynamic symbols are what a host dlsym would see; the static symbol
	// table fills in for unstripped builds and test binaries.
	if syms, err := f.DynamicSymbols(); err == nil {
		for _, sym := range syms {
			if sym.Value != 0 {
				img.exports[sym.Name] = luabridge.Address(sym.Value)
			}
		}
	}
	if syms, err := f.Symbols(); err == nil {
		for _, sym := range syms {
			if sym.Value == 0 {
				continue
			}
			if _, seen := img.exports[sym.Name]; !seen {
				img.exports[sym.Name] = luabridge.Address(sym.Value)
			}
		}
	}

	for _, sec := range f.Sections {
		if sec.Type == elf.SHT_NOBITS || sec.Size == 0 {
			continue
		}
		raw, err := sec.Data()
		if err != nil {
			continue
		}
		img.sections = append(img.sections, &Section{
			Name: sec.Name,
			Addr: luabridge.Address(sec.Addr),
			Data: raw,
		})
	}

	return img, nil
}
