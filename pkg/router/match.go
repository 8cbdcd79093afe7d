package router

import "sort"

// Match is the result of resolving a request path: the ancestor chain
// from root to leaf plus the parameter bindings made along it.
type Match struct {
	Chain  []NodeID
	Params Params
}

// Leaf returns the terminal node of the chain.
func (m *Match) Leaf() NodeID {
	return m.Chain[len(m.Chain)-1]
}

// Match resolves a request path to a root-to-leaf chain. The second
// return is false when no registered subtree consumes the full path;
// that is a normal outcome, not an error.
func (r *Registry) Match(path string) (*Match, bool) {
	params := make(Params)
	chain, ok := r.matchSet(r.roots, splitPath(path), params)
	if !ok {
		return nil, false
	}
	return &Match{Chain: chain, Params: params}, true
}

// matchSet tries the sibling set against the remaining segments.
// Siblings are tried most-literal-first: at the first pattern position
// where two candidates differ in kind, the literal one wins the
// tie-break. Backtracking moves on to the next candidate on failure.
func (r *Registry) matchSet(ids []NodeID, segs []string, params map[string]string) ([]NodeID, bool) {
	ordered := make([]NodeID, len(ids))
	copy(ordered, ids)
	sort.SliceStable(ordered, func(i, j int) bool {
		return r.moreLiteral(ordered[i], ordered[j])
	})

	for _, id := range ordered {
		if chain, ok := r.matchNode(id, segs, params); ok {
			return chain, true
		}
	}
	return nil, false
}

// moreLiteral reports whether a's pattern out-ranks b's in the
// literal-over-parameter tie-break.
func (r *Registry) moreLiteral(a, b NodeID) bool {
	as, bs := r.nodes[a].segments, r.nodes[b].segments
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i].isParam() != bs[i].isParam() {
			return !as[i].isParam()
		}
	}
	return false
}

// savedParam remembers what a binding shadowed so a failed candidate
// can restore it. A node may reuse a parameter name bound higher up
// the chain; deleting on rollback would erase the ancestor's binding.
type savedParam struct {
	name    string
	prev    string
	existed bool
}

// matchNode consumes the node's own pattern segments and then either
// terminates (all request segments consumed) or descends into the
// children with the remainder. Parameter bindings are rolled back when
// a candidate fails.
func (r *Registry) matchNode(id NodeID, segs []string, params map[string]string) ([]NodeID, bool) {
	n := &r.nodes[id]
	if len(n.segments) > len(segs) {
		return nil, false
	}

	var bound []savedParam
	for i, sg := range n.segments {
		if sg.isParam() {
			prev, existed := params[sg.param]
			bound = append(bound, savedParam{name: sg.param, prev: prev, existed: existed})
			params[sg.param] = segs[i]
			continue
		}
		if sg.literal != segs[i] {
			rollback(params, bound)
			return nil, false
		}
	}

	remaining := segs[len(n.segments):]
	if len(remaining) == 0 {
		return []NodeID{id}, true
	}

	childChain, ok := r.matchSet(n.children, remaining, params)
	if !ok {
		rollback(params, bound)
		return nil, false
	}
	return append([]NodeID{id}, childChain...), true
}

func rollback(params map[string]string, bound []savedParam) {
	for i := len(bound) - 1; i >= 0; i-- {
		s := bound[i]
		if s.existed {
			params[s.name] = s.prev
		} else {
			delete(params, s.name)
		}
	}
}
