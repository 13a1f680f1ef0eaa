package image

import (
	"bytes"
	"debug/pe"
	"encoding/binary"

	luabridge "github.com/hostlink/lua-bridge"
	"github.com/hostlink/lua-bridge/errors"
)

// exportDirectory is the PE IMAGE_EXPORT_DIRECTORY layout. debug/pe stops
// at the COFF symbol table, so the export table is walked by hand.
type exportDirectory struct {
	Characteristics       uint32
	TimeDateStamp         uint32
	MajorVersion          uint16
	MinorVersion          uint16
	NameRVA               uint32
	OrdinalBase           uint32
	NumberOfFunctions     uint32
	NumberOfNames         uint32
	AddressOfFunctions    uint32
	AddressOfNames        uint32
	AddressOfNameOrdinals uint32
}

func parsePE(path string, data []byte) (*FileImage, error) {
	f, err := pe.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseImage, errors.KindInvalidInput, err, "parse PE")
	}
	defer f.Close()

	img := &FileImage{
		path:     path,
		exports:  make(map[string]luabridge.Address),
		ordinals: make(map[uint32]luabridge.Address),
	}

	for _, sec := range f.Sections {
		raw, err := sec.Data()
		if err != nil || len(raw) == 0 {
			continue
		}
		img.sections = append(img.sections, &Section{
			Name: sec.Name,
			Addr: luabridge.Address(sec.VirtualAddress),
			Data: raw,
		})
	}

	dir, ok := exportDataDirectory(f)
	if !ok || dir.VirtualAddress == 0 {
		// No export table. Legal for an executable host image.
		return img, nil
	}

	raw, ok := img.readRVA(dir.VirtualAddress, 40)
	if !ok {
		return nil, errors.InvalidInput(errors.PhaseImage, "export directory outside mapped sections")
	}

	var ed exportDirectory
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &ed); err != nil {
		return nil, errors.Wrap(errors.PhaseImage, errors.KindInvalidInput, err, "decode export directory")
	}

	// Counts come straight from the file; size arithmetic stays in uint64
	// so a hostile count cannot wrap below the backing section length.
	funcs, ok := img.readRVA(ed.AddressOfFunctions, 4*uint64(ed.NumberOfFunctions))
	if !ok {
		return nil, errors.InvalidInput(errors.PhaseImage, "export address table outside mapped sections")
	}

	funcRVAs := make([]uint32, ed.NumberOfFunctions)
	for i := range funcRVAs {
		funcRVAs[i] = binary.LittleEndian.Uint32(funcs[i*4:])
	}

	// Forwarded exports point back inside the export directory; they have
	// no address in this image and are skipped.
	dirEnd := dir.VirtualAddress + dir.Size
	for i, rva := range funcRVAs {
		if rva == 0 || (rva >= dir.VirtualAddress && rva < dirEnd) {
			continue
		}
		img.ordinals[ed.OrdinalBase+uint32(i)] = luabridge.Address(rva)
	}

	names, namesOK := img.readRVA(ed.AddressOfNames, 4*uint64(ed.NumberOfNames))
	ords, ordsOK := img.readRVA(ed.AddressOfNameOrdinals, 2*uint64(ed.NumberOfNames))
	if !namesOK || !ordsOK {
		return img, nil
	}

	for i := uint32(0); i < ed.NumberOfNames; i++ {
		nameRVA := binary.LittleEndian.Uint32(names[i*4:])
		name, ok := img.readCString(nameRVA)
		if !ok {
			continue
		}
		idx := binary.LittleEndian.Uint16(ords[i*2:])
		if uint32(idx) >= ed.NumberOfFunctions {
			continue
		}
		rva := funcRVAs[idx]
		if rva == 0 || (rva >= dir.VirtualAddress && rva < dirEnd) {
			continue
		}
		img.exports[name] = luabridge.Address(rva)
	}

	return img, nil
}

func exportDataDirectory(f *pe.File) (pe.DataDirectory, bool) {
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		if oh.NumberOfRvaAndSizes > pe.IMAGE_DIRECTORY_ENTRY_EXPORT {
			return oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_EXPORT], true
		}
	case *pe.OptionalHeader64:
		if oh.NumberOfRvaAndSizes > pe.IMAGE_DIRECTORY_ENTRY_EXPORT {
			return oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_EXPORT], true
		}
	}
	return pe.DataDirectory{}, false
}

// readRVA returns size bytes at the given relative virtual address, or
// false when the range is not backed by section data.
func (f *FileImage) readRVA(rva uint32, size uint64) ([]byte, bool) {
	addr := luabridge.Address(rva)
	for _, s := range f.sections {
		if !s.Contains(addr) {
			continue
		}
		// Contains guarantees off < len(s.Data), so the subtraction below
		// cannot underflow.
		off := uint64(addr - s.Addr)
		if size > uint64(len(s.Data))-off {
			return nil, false
		}
		return s.Data[off : off+size], true
	}
	return nil, false
}

func (f *FileImage) readCString(rva uint32) (string, bool) {
	addr := luabridge.Address(rva)
	for _, s := range f.sections {
		if !s.Contains(addr) {
			continue
		}
		off := addr - s.Addr
		rest := s.Data[off:]
		end := bytes.IndexByte(rest, 0)
		if end < 0 {
			return "", false
		}
		return string(rest[:end]), true
	}
	return "", false
}
