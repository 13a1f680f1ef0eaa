//go:build darwin || freebsd || linux || netbsd

package image

import (
	"github.com/ebitengine/purego"
	"go.uber.org/multierr"

	luabridge "github.com/hostlink/lua-bridge"
	"github.com/hostlink/lua-bridge/errors"
)

// SharedLibrary is an Image over a live dlopen handle. Export addresses are
// final mapped addresses, ready to call through. Section bytes are not
// available from a handle, so pattern-scan strategies report absence and
// resolution degrades to export-only lookup.
type SharedLibrary struct {
	path   string
	handle uintptr
}

// OpenShared dlopens the library at path. The handle is held for the
// process lifetime unless Close is called.
func OpenShared(path string) (*SharedLibrary, error) {
	h, err := purego.Dlopen(path, purego.RTLD_GLOBAL|purego.RTLD_LAZY)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseImage, errors.KindInvalidInput, err, "dlopen "+path)
	}
	return &SharedLibrary{path: path, handle: h}, nil
}

func (s *SharedLibrary) Path() string { return s.path }

func (s *SharedLibrary) Export(name string) (luabridge.Address, bool) {
	addr, err := purego.Dlsym(s.handle, name)
	if err != nil || addr == 0 {
		return 0, false
	}
	return luabridge.Address(addr), true
}

// Section always reports absence: a dlopen handle exposes no section data.
func (s *SharedLibrary) Section(string) (*Section, bool) { return nil, false }

func (s *SharedLibrary) Close() error {
	return purego.Dlclose(s.handle)
}

// OpenHostLibrary walks the candidate paths for a host library (see
// HostLibraryCandidates) and opens the first that loads, collecting every
// per-path failure into the returned error when none do.
func OpenHostLibrary(name string, plat Platform) (*SharedLibrary, error) {
	var errs error
	for _, path := range HostLibraryCandidates(name, plat) {
		lib, err := OpenShared(path)
		if err == nil {
			return lib, nil
		}
		errs = multierr.Append(errs, err)
	}
	return nil, errors.Wrap(errors.PhaseImage, errors.KindNotFound, errs, "no loadable candidate for "+name)
}
