package resolve

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/apexframe/apex/pkg/codegen"
	"github.com/apexframe/apex/pkg/router"
)

// errShortCircuit cancels outstanding loaders once any loader settles
// on a non-Ok result.
var errShortCircuit = errors.New("resolve: loader short-circuit")

// Result is the outcome of resolving one request. When Outcome.Kind is
// LoaderOk the render output for the requested target is populated;
// for every other kind nothing rendered and the boundary layer maps
// the outcome directly.
type Result struct {
	Outcome      router.LoaderResult
	HTML         string
	Instructions []codegen.Instruction
}

// Resolver drives chain rendering against an immutable registry. It is
// stateless and safe for concurrent use; all mutable state lives in
// the per-request Context.
type Resolver struct {
	reg *router.Registry
}

// New creates a Resolver over the registry.
func New(reg *router.Registry) *Resolver {
	return &Resolver{reg: reg}
}

// Resolve runs the chain's loaders and, if every one of them settles
// Ok, renders the chain for the target. The returned error is non-nil
// only when ctx is cancelled before the loaders settle.
func (rv *Resolver) Resolve(ctx context.Context, target codegen.Target, path string, m *router.Match) (*Result, error) {
	data, outcome, err := rv.runLoaders(ctx, path, m)
	if err != nil {
		return nil, err
	}
	if outcome.Kind != router.LoaderOk {
		return &Result{Outcome: outcome}, nil
	}

	rc := NewContext(path, m)
	res := &Result{Outcome: router.Ok(nil)}
	if target == codegen.TargetClient {
		res.Instructions = rv.renderChainClient(rc, data)
	} else {
		res.HTML = rv.renderChainHTML(rc, data)
	}
	return res, nil
}

// runLoaders executes the chain's loaders concurrently. The first
// non-Ok result in root-to-leaf order becomes the request outcome and
// suppresses rendering for the whole chain.
func (rv *Resolver) runLoaders(ctx context.Context, path string, m *router.Match) ([]any, router.LoaderResult, error) {
	results := make([]router.LoaderResult, len(m.Chain))

	g, gctx := errgroup.WithContext(ctx)
	req := router.Request{Path: path, Params: m.Params}

	for i, id := range m.Chain {
		loader := rv.reg.Loader(id)
		if loader == nil {
			results[i] = router.Ok(nil)
			continue
		}
		i := i
		g.Go(func() error {
			res := loader(gctx, req)
			results[i] = res
			if res.Kind != router.LoaderOk {
				return errShortCircuit
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, errShortCircuit) {
		return nil, router.LoaderResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, router.LoaderResult{}, err
	}

	for _, res := range results {
		if res.Kind != router.LoaderOk {
			return nil, res, nil
		}
	}

	data := make([]any, len(results))
	for i, res := range results {
		data[i] = res.Data
	}
	return data, router.Ok(nil), nil
}

// renderChainHTML renders the chain leaf-first. Each ancestor's outlet
// site substitutes the immediately-previously-produced child output;
// nodes without a component pass the pending output through.
func (rv *Resolver) renderChainHTML(rc *Context, data []any) string {
	var out string
	for i := len(rc.Match.Chain) - 1; i >= 0; i-- {
		id := rc.Match.Chain[i]
		prog := rv.reg.Program(id)
		if prog == nil {
			continue
		}
		if html, ok := rc.cachedHTML(id); ok {
			out = html
			continue
		}
		out = prog.Server(rv.nodeProps(rc, data, i), rc)
		rc.setPendingHTML(id, out)
	}
	return out
}

// renderChainClient is renderChainHTML for the instruction target.
func (rv *Resolver) renderChainClient(rc *Context, data []any) []codegen.Instruction {
	var out []codegen.Instruction
	for i := len(rc.Match.Chain) - 1; i >= 0; i-- {
		id := rc.Match.Chain[i]
		prog := rv.reg.Program(id)
		if prog == nil {
			continue
		}
		if instrs, ok := rc.cachedInstructions(id); ok {
			out = instrs
			continue
		}
		out = prog.Client(rv.nodeProps(rc, data, i), rc)
		rc.setPendingInstructions(id, out)
	}
	return out
}

// nodeProps assembles the props value for the chain node at index i.
func (rv *Resolver) nodeProps(rc *Context, data []any, i int) codegen.Props {
	return codegen.Props{
		"params": map[string]string(rc.Match.Params),
		"data":   data[i],
	}
}
