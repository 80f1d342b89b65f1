package router

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// anyMethod keys endpoints registered for every method.
const anyMethod = "*"

// endpoint is a compiled route: the terminal handler already wrapped in its
// scope middleware.
type endpoint[C handler.Context] struct {
	method  string
	pattern Pattern
	handler handler.HandlerFunc[C]
}

// node is one segment position in the trie. Static children are keyed by
// literal; at most one parametric child (param or wildcard) exists per node.
type node[C handler.Context] struct {
	path      string // canonical pattern prefix leading here
	static    map[string]*node[C]
	dynamic   *node[C]
	kind      SegmentKind
	name      string
	endpoints map[string]*endpoint[C]
}

func (n *node[C]) insert(ep *endpoint[C]) error {
	cur := n
	for _, seg := range ep.pattern.segments {
		switch seg.Kind {
		case SegmentStatic:
			child, ok := cur.static[seg.Value]
			if !ok {
				if cur.static == nil {
					cur.static = make(map[string]*node[C])
				}
				child = &node[C]{path: cur.path + "/" + seg.Value, kind: SegmentStatic, name: seg.Value}
				cur.static[seg.Value] = child
			}
			cur = child

		default:
			if cur.dynamic != nil {
				if cur.dynamic.kind != seg.Kind || cur.dynamic.name != seg.Value {
					return &RouteConflictError{
						Method:   ep.method,
						Pattern:  ep.pattern.String(),
						Existing: cur.dynamic.path,
						Reason:   "ambiguous " + seg.Kind.String() + " segment",
					}
				}
				cur = cur.dynamic
				continue
			}
			label := ":" + seg.Value
			if seg.Kind == SegmentWildcard {
				label = "*" + strings.TrimPrefix(seg.Value, "*")
			}
			cur.dynamic = &node[C]{path: cur.path + "/" + label, kind: seg.Kind, name: seg.Value}
			cur = cur.dynamic
		}
	}

	if existing, ok := cur.endpoints[ep.method]; ok {
		return &RouteConflictError{
			Method:   ep.method,
			Pattern:  ep.pattern.String(),
			Existing: existing.pattern.String(),
			Reason:   "duplicate route",
		}
	}
	if cur.endpoints == nil {
		cur.endpoints = make(map[string]*endpoint[C])
	}
	cur.endpoints[ep.method] = ep
	return nil
}

// param is a captured name/value pair.
type param struct {
	key   string
	value string
}

// match walks the trie for the given segments. Static children are tried
// first; the parametric child is only tried when the static branch does not
// produce an accepted node. A wildcard ends the walk.
func (n *node[C]) match(segs []string, accept func(*node[C]) bool, ps *[]param) *node[C] {
	if len(segs) == 0 {
		if accept(n) {
			return n
		}
		return nil
	}

	seg := segs[0]
	mark := len(*ps)

	if child, ok := n.static[seg]; ok {
		if found := child.match(segs[1:], accept, ps); found != nil {
			return found
		}
		*ps = (*ps)[:mark]
	}

	d := n.dynamic
	if d == nil {
		return nil
	}
	switch d.kind {
	case SegmentParam:
		if seg == "" {
			return nil
		}
		*ps = append(*ps, param{key: d.name, value: seg})
		if found := d.match(segs[1:], accept, ps); found != nil {
			return found
		}
		*ps = (*ps)[:mark]
	case SegmentWildcard:
		if accept(d) {
			*ps = append(*ps, param{key: d.name, value: strings.Join(segs, "/")})
			return d
		}
	}
	return nil
}

// endpointFor picks the endpoint serving method. HEAD falls back to GET, and
// routes registered for every method serve anything else.
func (n *node[C]) endpointFor(method string) *endpoint[C] {
	if ep, ok := n.endpoints[method]; ok {
		return ep
	}
	if method == http.MethodHead {
		if ep, ok := n.endpoints[http.MethodGet]; ok {
			return ep
		}
	}
	return n.endpoints[anyMethod]
}

// allowed lists the methods registered at n, sorted. The implicit HEAD
// served by a GET route is not listed.
func (n *node[C]) allowed() []string {
	methods := make([]string, 0, len(n.endpoints))
	for m := range n.endpoints {
		if m == anyMethod {
			continue
		}
		methods = append(methods, m)
	}
	slices.Sort(methods)
	return methods
}

// lookup resolves method and path. The path is expected in escaped form;
// segments are unescaped before matching.
func (n *node[C]) lookup(method, path string) (*endpoint[C], []param, error) {
	segs := splitPath(path)
	for i, s := range segs {
		if strings.IndexByte(s, '%') < 0 {
			continue
		}
		if v, err := url.PathUnescape(s); err == nil {
			segs[i] = v
		}
	}

	var ps []param
	found := n.match(segs, func(c *node[C]) bool {
		return c.endpointFor(method) != nil
	}, &ps)
	if found != nil {
		return found.endpointFor(method), ps, nil
	}

	ps = ps[:0]
	found = n.match(segs, func(c *node[C]) bool {
		return len(c.endpoints) > 0
	}, &ps)
	if found == nil {
		return nil, nil, ErrNotFound
	}
	return nil, nil, &MethodNotAllowedError{Method: method, Allowed: found.allowed()}
}
