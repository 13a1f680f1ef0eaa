package resolver

import (
	"testing"

	luabridge "github.com/hostlink/lua-bridge"
	"github.com/hostlink/lua-bridge/errors"
	"github.com/hostlink/lua-bridge/image"
)

// fullFixture exports every required identifier at a distinct address.
func fullFixture() *image.Fixture {
	fix := image.NewFixture("lua_shared")
	for i, id := range Required() {
		fix.AddExport(string(id), luabridge.Address(0x10000+i*0x40))
	}
	return fix
}

func TestResolve_AllExported(t *testing.T) {
	table, err := Resolve(fullFixture(), nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if table.Len() != len(Required()) {
		t.Fatalf("table has %d entries, want %d", table.Len(), len(Required()))
	}

	addr, ok := table.Address(IdentPCall)
	if !ok || addr.IsNil() {
		t.Errorf("lua_pcall = (%v, %v)", addr, ok)
	}
}

func TestResolve_Repeatable(t *testing.T) {
	fix := fullFixture()

	first, err := Resolve(fix, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Resolve(fix, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range Required() {
		a, _ := first.Address(id)
		b, _ := second.Address(id)
		if a != b {
			t.Errorf("%s resolved to %v then %v", id, a, b)
		}
	}
}

func TestResolve_MissingSymbolNamesIt(t *testing.T) {
	fix := image.NewFixture("lua_shared")
	for _, id := range Required() {
		if id == IdentPCall {
			continue
		}
		fix.AddExport(string(id), 0x1000)
	}

	table, err := Resolve(fix, nil)
	if table != nil {
		t.Fatal("no partial table may be published")
	}
	if !errors.IsSymbolNotFound(err) {
		t.Fatalf("got %v, want SymbolNotFound", err)
	}
	var be *errors.Error
	if !asBridgeError(err, &be) || be.Identifier != string(IdentPCall) {
		t.Errorf("error does not name the missing identifier: %v", err)
	}
}

func TestResolve_PatternStrategy(t *testing.T) {
	fix := fullFixture()
	// lua_pcall is not exported in this build; it is found by signature.
	fixNoPCall := image.NewFixture("lua_shared")
	for _, id := range Required() {
		if id != IdentPCall {
			addr, _ := fix.Export(string(id))
			fixNoPCall.AddExport(string(id), addr)
		}
	}
	fixNoPCall.AddSection(".text", 0x4000, []byte{0x90, 0x55, 0x48, 0x89, 0xE5, 0xC3})

	plan := &Plan{symbols: map[Ident]Strategy{
		IdentPCall: {Pattern: "55 48 89 E5", Section: ".text"},
	}}

	table, err := Resolve(fixNoPCall, plan)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	addr, _ := table.Address(IdentPCall)
	if addr != 0x4001 {
		t.Errorf("pattern address = %v, want 0x4001", addr)
	}
}

func TestResolve_AnchorStrategy(t *testing.T) {
	fix := fullFixture()
	plan := &Plan{symbols: map[Ident]Strategy{
		IdentCall: {Anchor: IdentPCall, Offset: -0x40},
	}}
	// The anchored identifier must not be exported or the export wins.
	fixNoCall := image.NewFixture("lua_shared")
	for _, id := range Required() {
		if id != IdentCall {
			addr, _ := fix.Export(string(id))
			fixNoCall.AddExport(string(id), addr)
		}
	}

	table, err := Resolve(fixNoCall, plan)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	pcall, _ := table.Address(IdentPCall)
	call, _ := table.Address(IdentCall)
	if call != pcall-0x40 {
		t.Errorf("anchored address = %v, want %v", call, pcall-0x40)
	}
}

func TestResolve_ExportBeatsPattern(t *testing.T) {
	fix := fullFixture()
	fix.AddSection(".text", 0x4000, []byte{0x55, 0x48, 0x89, 0xE5})

	plan := &Plan{symbols: map[Ident]Strategy{
		IdentPCall: {Export: string(IdentPCall), Pattern: "55 48 89 E5", Section: ".text"},
	}}

	table, err := Resolve(fix, plan)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := fix.Export(string(IdentPCall))
	got, _ := table.Address(IdentPCall)
	if got != want {
		t.Errorf("export lookup must win over pattern scan: got %v, want %v", got, want)
	}
}

func TestResolve_OrdinalStrategy(t *testing.T) {
	fix := fullFixture()
	fixRenamed := image.NewFixture("lua_shared.dll")
	for _, id := range Required() {
		if id != IdentNewState {
			addr, _ := fix.Export(string(id))
			fixRenamed.AddExport(string(id), addr)
		}
	}
	fixRenamed.AddOrdinal(7, 0xBEEF)

	plan := &Plan{symbols: map[Ident]Strategy{
		IdentNewState: {Ordinal: 7},
	}}

	table, err := Resolve(fixRenamed, plan)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	addr, _ := table.Address(IdentNewState)
	if addr != 0xBEEF {
		t.Errorf("ordinal address = %v, want 0xBEEF", addr)
	}
}

func TestResolve_AnchorChainNeverResolves(t *testing.T) {
	fix := image.NewFixture("lua_shared")
	for _, id := range Required() {
		if id != IdentCall && id != IdentPCall {
			fix.AddExport(string(id), 0x1000)
		}
	}
	plan := &Plan{symbols: map[Ident]Strategy{
		IdentCall:  {Anchor: IdentPCall, Offset: 8},
		IdentPCall: {Anchor: IdentCall, Offset: -8},
	}}

	if _, err := Resolve(fix, plan); !errors.IsSymbolNotFound(err) {
		t.Errorf("got %v, want SymbolNotFound for a circular anchor chain", err)
	}
}

func TestResolve_AmbiguousPatternIsConfigError(t *testing.T) {
	fix := image.NewFixture("lua_shared")
	for _, id := range Required() {
		if id != IdentPCall {
			fix.AddExport(string(id), 0x1000)
		}
	}
	fix.AddSection(".text", 0x4000, []byte{0x55, 0x48, 0x00, 0x55, 0x48})

	plan := &Plan{symbols: map[Ident]Strategy{
		IdentPCall: {Pattern: "55 48", Section: ".text"},
	}}

	_, err := Resolve(fix, plan)
	if !errors.IsKind(err, errors.KindInvalidConfig) {
		t.Errorf("got %v, want invalid_config for an ambiguous signature", err)
	}
}

func asBridgeError(err error, target **errors.Error) bool {
	for err != nil {
		if e, ok := err.(*errors.Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
