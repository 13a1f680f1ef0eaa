package resolver

import (
	luabridge "github.com/hostlink/lua-bridge"
	"github.com/hostlink/lua-bridge/errors"
	"github.com/hostlink/lua-bridge/image"
)

// Result is one identifier's outcome in a diagnostic report.
type Result struct {
	Ident Ident
	Addr  luabridge.Address
	Err   error
}

// Report resolves like Resolve but keeps going past failures, returning
// one Result per planned identifier in plan order. Load paths use Resolve;
// this exists for triage tooling when a host update breaks a table.
func Report(img image.Image, plan *Plan) []Result {
	if plan == nil {
		plan = DefaultPlan()
	}

	order := plan.idents()
	addrs := make(map[Ident]luabridge.Address)
	failures := make(map[Ident]error)
	pending := order

	for len(pending) > 0 {
		progress := false
		var deferred []Ident

		for _, id := range pending {
			addr, retry, err := resolveOne(img, id, plan.strategy(id), addrs)
			switch {
			case err != nil:
				failures[id] = err
				progress = true
			case retry:
				deferred = append(deferred, id)
			default:
				addrs[id] = addr
				progress = true
			}
		}

		if !progress {
			for _, id := range deferred {
				failures[id] = errors.New(errors.PhaseResolve, errors.KindSymbolNotFound).
					Identifier(string(id)).
					Detail("anchor chain never resolved").
					Build()
			}
			break
		}
		pending = deferred
	}

	out := make([]Result, 0, len(order))
	for _, id := range order {
		if addr, ok := addrs[id]; ok {
			out = append(out, Result{Ident: id, Addr: addr})
			continue
		}
		out = append(out, Result{Ident: id, Err: failures[id]})
	}
	return out
}
