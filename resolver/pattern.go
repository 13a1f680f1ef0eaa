package resolver

import (
	"strconv"
	"strings"

	luabridge "github.com/hostlink/lua-bridge"
	"github.com/hostlink/lua-bridge/errors"
	"github.com/hostlink/lua-bridge/image"
)

// Pattern is a compiled byte signature. Each element is a byte value or -1
// for a wildcard position.
type Pattern []int16

const wildcard int16 = -1

// CompilePattern parses a signature string of space-separated hex bytes
// with "??" wildcards, e.g. "55 48 89 E5 ?? 8B".
func CompilePattern(s string) (Pattern, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, errors.InvalidConfig("empty signature pattern")
	}

	pat := make(Pattern, 0, len(fields))
	for _, f := range fields {
		if f == "??" || f == "?" {
			pat = append(pat, wildcard)
			continue
		}
		v, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidConfig, err, "signature byte "+f)
		}
		pat = append(pat, int16(v))
	}

	if pat[0] == wildcard {
		return nil, errors.InvalidConfig("signature pattern must not start with a wildcard")
	}
	return pat, nil
}

// Find scans the section for the pattern and returns the virtual address
// of the unique match. Zero matches and multiple matches are both errors:
// an ambiguous signature is a configuration defect, not a coin to flip.
func (p Pattern) Find(sec *image.Section) (luabridge.Address, error) {
	if len(p) == 0 || len(sec.Data) < len(p) {
		return 0, errors.NotFound(errors.PhaseResolve, "pattern in section", sec.Name)
	}

	first := byte(p[0])
	var match luabridge.Address
	found := false

	limit := len(sec.Data) - len(p)
	for i := 0; i <= limit; i++ {
		if sec.Data[i] != first {
			continue
		}
		if !p.matchAt(sec.Data[i:]) {
			continue
		}
		if found {
			return 0, errors.InvalidConfig("ambiguous signature: multiple matches in " + sec.Name)
		}
		match = sec.Addr + luabridge.Address(i)
		found = true
	}

	if !found {
		return 0, errors.NotFound(errors.PhaseResolve, "pattern in section", sec.Name)
	}
	return match, nil
}

func (p Pattern) matchAt(data []byte) bool {
	for j := 1; j < len(p); j++ {
		if p[j] == wildcard {
			continue
		}
		if data[j] != byte(p[j]) {
			return false
		}
	}
	return true
}
