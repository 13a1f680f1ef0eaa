package resolver

import (
	luabridge "github.com/hostlink/lua-bridge"
	"github.com/hostlink/lua-bridge/errors"
	"github.com/hostlink/lua-bridge/image"
)

// Table is the published result of a successful resolution: every planned
// identifier mapped to its address. Immutable after Resolve returns, so
// reads need no synchronization.
type Table struct {
	addrs map[Ident]luabridge.Address
}

// Address returns the resolved address for id. The second result is false
// only for identifiers outside the resolved plan; a published table is
// always complete for the required set.
func (t *Table) Address(id Ident) (luabridge.Address, bool) {
	addr, ok := t.addrs[id]
	return addr, ok
}

// Len returns the number of resolved identifiers.
func (t *Table) Len() int { return len(t.addrs) }

// Resolve locates every identifier the plan names inside img. A nil plan
// means export-by-name for the required set.
//
// Resolution is all or nothing: the first identifier that cannot be located
// aborts with a SymbolNotFound error naming it and no table is returned.
// Anchored identifiers may depend on each other, so resolution runs in
// passes until a pass makes no progress.
func Resolve(img image.Image, plan *Plan) (*Table, error) {
	if plan == nil {
		plan = DefaultPlan()
	}

	addrs := make(map[Ident]luabridge.Address)
	pending := plan.idents()

	for len(pending) > 0 {
		progress := false
		var deferred []Ident

		for _, id := range pending {
			addr, retry, err := resolveOne(img, id, plan.strategy(id), addrs)
			switch {
			case err != nil:
				return nil, err
			case retry:
				deferred = append(deferred, id)
			default:
				addrs[id] = addr
				progress = true
			}
		}

		if !progress {
			// Every remaining identifier is anchored to something that
			// never resolved; report the first in plan order.
			return nil, errors.New(errors.PhaseResolve, errors.KindSymbolNotFound).
				Identifier(string(deferred[0])).
				Detail("anchor chain never resolved").
				Build()
		}
		pending = deferred
	}

	return &Table{addrs: addrs}, nil
}

// resolveOne tries the strategies for a single identifier in the fixed
// order: export name, ordinal, pattern scan, anchor offset. retry is true
// when only an anchor dependency is still outstanding.
func resolveOne(img image.Image, id Ident, strat Strategy, resolved map[Ident]luabridge.Address) (addr luabridge.Address, retry bool, err error) {
	exportName := strat.Export
	if exportName == "" && strat.Anchor == "" && strat.Pattern == "" && strat.Ordinal == 0 {
		exportName = string(id)
	}

	if exportName != "" {
		if addr, ok := img.Export(exportName); ok {
			return addr, false, nil
		}
	}

	if strat.Ordinal != 0 {
		if oe, ok := img.(image.OrdinalExporter); ok {
			if addr, ok := oe.ExportOrdinal(strat.Ordinal); ok {
				return addr, false, nil
			}
		}
	}

	if strat.Pattern != "" {
		addr, patErr := scanPattern(img, strat)
		if patErr == nil {
			return addr, false, nil
		}
		if errors.IsKind(patErr, errors.KindInvalidConfig) {
			// Ambiguous signature: a config defect, not a missing symbol.
			return 0, false, patErr
		}
	}

	if strat.Anchor != "" {
		base, ok := resolved[strat.Anchor]
		if !ok {
			return 0, true, nil
		}
		return luabridge.Address(int64(base) + strat.Offset), false, nil
	}

	return 0, false, errors.SymbolNotFound(string(id))
}

func scanPattern(img image.Image, strat Strategy) (luabridge.Address, error) {
	sec, ok := img.Section(strat.Section)
	if !ok {
		return 0, errors.NotFound(errors.PhaseResolve, "section", strat.Section)
	}
	pat, err := CompilePattern(strat.Pattern)
	if err != nil {
		return 0, err
	}
	return pat.Find(sec)
}
