package resolver

import (
	"testing"
)

const sampleConfig = `
hosts:
  - name: x86-64 branch
    min_version: "2023.6.0"
    platforms:
      linux:
        symbols:
          lua_pcall:
            pattern: "55 48 89 E5"
            section: ".text"
          lua_call:
            anchor: lua_pcall
            offset: -64
      windows:
        symbols:
          luaL_newstate:
            ordinal: 7
  - name: main branch
    max_version: "2023.6.0"
    platforms:
      linux:
        symbols:
          luaL_newstate:
            export: _luaL_newstate
`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Hosts) != 2 {
		t.Fatalf("got %d host entries, want 2", len(cfg.Hosts))
	}
}

func TestConfig_Plan_VersionGate(t *testing.T) {
	cfg, err := LoadConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatal(err)
	}

	// New build lands in the first entry.
	plan, err := cfg.Plan("2024.1.0", "linux")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if s := plan.strategy(IdentPCall); s.Pattern == "" {
		t.Error("new build should use the pattern strategy for lua_pcall")
	}

	// Old build lands in the second entry.
	plan, err = cfg.Plan("2022.1.0", "linux")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if s := plan.strategy(IdentNewState); s.Export != "_luaL_newstate" {
		t.Errorf("old build export = %q, want _luaL_newstate", s.Export)
	}
}

func TestConfig_Plan_NoMatch(t *testing.T) {
	cfg, err := LoadConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := cfg.Plan("2024.1.0", "darwin"); err == nil {
		t.Error("expected error for unconfigured platform")
	}
	if _, err := cfg.Plan("not-a-version", "linux"); err == nil {
		t.Error("expected error for malformed host version")
	}
}

func TestConfig_Plan_DefaultStrategy(t *testing.T) {
	cfg, err := LoadConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatal(err)
	}

	plan, err := cfg.Plan("2024.1.0", "linux")
	if err != nil {
		t.Fatal(err)
	}

	// Identifiers the table does not mention fall back to their own name.
	s := plan.strategy(IdentGetTop)
	if s.Export != string(IdentGetTop) {
		t.Errorf("fallback strategy = %+v", s)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad pattern byte", `
hosts:
  - platforms:
      linux:
        symbols:
          lua_pcall: {pattern: "ZZ 90", section: ".text"}
`},
		{"pattern without section", `
hosts:
  - platforms:
      linux:
        symbols:
          lua_pcall: {pattern: "55 90"}
`},
		{"unknown anchor", `
hosts:
  - platforms:
      linux:
        symbols:
          lua_pcall: {anchor: not_an_identifier, offset: 8}
`},
		{"self anchor", `
hosts:
  - platforms:
      linux:
        symbols:
          lua_pcall: {anchor: lua_pcall, offset: 8}
`},
		{"bad min_version", `
hosts:
  - min_version: "latest"
    platforms: {}
`},
		{"not yaml", "hosts: ["},
	}

	for _, c := range cases {
		if _, err := LoadConfig([]byte(c.yaml)); err == nil {
			t.Errorf("%s: LoadConfig succeeded, want error", c.name)
		}
	}
}
