package resolver

import (
	"fmt"
	"sort"

	"github.com/coreos/go-semver/semver"
	"gopkg.in/yaml.v3"

	"github.com/hostlink/lua-bridge/errors"
)

// Strategy describes how one identifier is located in a host image. Fields
// are tried in the resolver's fixed order; an empty strategy means "export
// lookup under the identifier's own name".
type Strategy struct {
	// Export overrides the export name when the platform mangles it.
	Export string `yaml:"export,omitempty"`
	// Ordinal looks the symbol up by export ordinal (PE images).
	Ordinal uint32 `yaml:"ordinal,omitempty"`
	// Pattern is a byte signature scanned over Section when the symbol
	// is not exported.
	Pattern string `yaml:"pattern,omitempty"`
	Section string `yaml:"section,omitempty"`
	// Anchor places the symbol at a fixed offset from another identifier
	// that is resolvable in the same image.
	Anchor Ident `yaml:"anchor,omitempty"`
	Offset int64 `yaml:"offset,omitempty"`
}

func (s Strategy) isZero() bool {
	return s.Export == "" && s.Ordinal == 0 && s.Pattern == "" && s.Anchor == ""
}

type platformEntry struct {
	Symbols map[Ident]Strategy `yaml:"symbols"`
}

type hostEntry struct {
	// Name labels the host release line, e.g. "x86-64 branch".
	Name string `yaml:"name"`
	// MinVersion (inclusive) and MaxVersion (exclusive) gate this entry
	// by host build version. Empty means unbounded on that side.
	MinVersion string                   `yaml:"min_version"`
	MaxVersion string                   `yaml:"max_version"`
	Platforms  map[string]platformEntry `yaml:"platforms"`
}

// Config is the versioned signature table supplied alongside the resolver.
// Hosts are matched in declaration order; the first entry whose version
// range contains the host build wins.
type Config struct {
	Hosts []hostEntry `yaml:"hosts"`
}

// LoadConfig parses and validates a YAML signature table. Patterns are
// compiled and anchor references checked here so a malformed table fails
// at load, not in the middle of resolution.
func LoadConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidConfig, err, "parse signature table")
	}

	for hi, host := range cfg.Hosts {
		if _, _, err := host.versionBounds(); err != nil {
			return nil, err
		}
		for plat, entry := range host.Platforms {
			for id, strat := range entry.Symbols {
				where := fmt.Sprintf("hosts[%d].platforms.%s.%s", hi, plat, id)
				if strat.Pattern != "" {
					if _, err := CompilePattern(strat.Pattern); err != nil {
						return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidConfig, err, where)
					}
					if strat.Section == "" {
						return nil, errors.InvalidConfig(where + ": pattern requires a section")
					}
				}
				if strat.Anchor != "" {
					if _, ok := entry.Symbols[strat.Anchor]; !ok && !isRequired(strat.Anchor) {
						return nil, errors.InvalidConfig(where + ": anchor " + string(strat.Anchor) + " is not a known identifier")
					}
					if strat.Anchor == id {
						return nil, errors.InvalidConfig(where + ": identifier anchored to itself")
					}
				}
			}
		}
	}

	return &cfg, nil
}

func (h hostEntry) versionBounds() (min, max *semver.Version, err error) {
	if h.MinVersion != "" {
		min, err = semver.NewVersion(h.MinVersion)
		if err != nil {
			return nil, nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidConfig, err, "min_version "+h.MinVersion)
		}
	}
	if h.MaxVersion != "" {
		max, err = semver.NewVersion(h.MaxVersion)
		if err != nil {
			return nil, nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidConfig, err, "max_version "+h.MaxVersion)
		}
	}
	return min, max, nil
}

func (h hostEntry) matches(v *semver.Version) bool {
	min, max, err := h.versionBounds()
	if err != nil {
		return false
	}
	if min != nil && v.LessThan(*min) {
		return false
	}
	if max != nil && !v.LessThan(*max) {
		return false
	}
	return true
}

// Plan is the per-load resolution plan: one strategy per identifier for a
// concrete host version and platform.
type Plan struct {
	symbols map[Ident]Strategy
}

// DefaultPlan resolves every required identifier by export lookup under
// its own name, the common case for hosts that export the runtime API.
func DefaultPlan() *Plan {
	return &Plan{symbols: map[Ident]Strategy{}}
}

// Plan selects the signature table entry for the given host build and
// platform ("linux", "windows", "darwin").
func (c *Config) Plan(hostVersion, platform string) (*Plan, error) {
	v, err := semver.NewVersion(hostVersion)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidConfig, err, "host version "+hostVersion)
	}

	for _, host := range c.Hosts {
		if !host.matches(v) {
			continue
		}
		entry, ok := host.Platforms[platform]
		if !ok {
			return nil, errors.NotFound(errors.PhaseConfig, "platform", platform+" in host entry "+host.Name)
		}
		symbols := make(map[Ident]Strategy, len(entry.Symbols))
		for id, strat := range entry.Symbols {
			symbols[id] = strat
		}
		return &Plan{symbols: symbols}, nil
	}

	return nil, errors.NotFound(errors.PhaseConfig, "host entry for version", hostVersion)
}

// strategy returns the plan's strategy for id, falling back to export
// lookup under the identifier's own name.
func (p *Plan) strategy(id Ident) Strategy {
	if s, ok := p.symbols[id]; ok && !s.isZero() {
		return s
	}
	return Strategy{Export: string(id)}
}

// idents returns the identifiers this plan resolves: the required set plus
// any extra symbols the configuration names, in a deterministic order.
func (p *Plan) idents() []Ident {
	out := Required()
	seen := make(map[Ident]bool, len(out))
	for _, id := range out {
		seen[id] = true
	}
	var extra []Ident
	for id := range p.symbols {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

func isRequired(id Ident) bool {
	for _, r := range required {
		if r == id {
			return true
		}
	}
	return false
}
