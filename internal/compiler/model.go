package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/roach88/megac/internal/graph"
)

// CompileModel builds a graph model from a CUE value with an "objects"
// struct. Each object and context is a node:
//
//	objects: Door: {
//		contexts: {
//			Open:   {kind: "state", contexts: Ajar: kind: "state"}
//			Closed: {kind: "state"}
//			Push:   {kind: "interupt", transitions: ["Open", "Closed"]}
//			Which:  {kind: "decider", events: ["Open", "Closed"]}
//		}
//		links: owner: {targets: [{to: "House.doors", many: true}]}
//	}
//
// Fields are read in declaration order, which fixes vertex and automaton
// IDs. Link targets name the far link by its full name.
func CompileModel(v cue.Value) (*graph.Model, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	objects := v.LookupPath(cue.ParsePath("objects"))
	if !objects.Exists() {
		return nil, &CompileError{Field: "objects", Message: "objects is required", Pos: v.Pos()}
	}
	iter, err := objects.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	c := &modelCompiler{b: graph.NewBuilder(), links: make(map[string]*graph.Vertex)}
	count := 0
	for iter.Next() {
		obj := c.b.Object(iter.Label())
		if err := c.node(obj, iter.Value(), true); err != nil {
			return nil, err
		}
		count++
	}
	if count == 0 {
		return nil, &CompileError{Field: "objects", Message: "at least one object is required", Pos: objects.Pos()}
	}

	for _, t := range c.targets {
		to, ok := c.links[t.to]
		if !ok {
			return nil, &CompileError{
				Field:   "links.targets.to",
				Message: fmt.Sprintf("%s: unknown link %q", t.from.FullName(), t.to),
				Pos:     t.pos,
			}
		}
		c.b.LinkTo(t.from, to, t.card)
	}

	m, err := c.b.Build()
	if err != nil {
		return nil, &CompileError{Field: "model", Message: err.Error(), Pos: v.Pos()}
	}
	return m, nil
}

type pendingTarget struct {
	from *graph.Vertex
	to   string
	card graph.Cardinality
	pos  token.Pos
}

type modelCompiler struct {
	b       *graph.Builder
	links   map[string]*graph.Vertex
	targets []pendingTarget
}

var (
	objectFields  = fieldSet("concurrent", "contexts", "dims", "bitsets", "links", "transitions")
	contextFields = fieldSet("kind", "size", "concurrent", "contexts", "dims", "bitsets", "links", "transitions", "events")
	linkFields    = fieldSet("kind", "targets")
	targetFields  = fieldSet("to", "many", "optional")
)

func fieldSet(names ...string) map[string]bool {
	s := make(map[string]bool, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

// checkFields rejects labels outside allowed.
func checkFields(v cue.Value, allowed map[string]bool, where string) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		label := iter.Label()
		if !allowed[label] {
			return &CompileError{
				Field:   where + "." + label,
				Message: "unknown field",
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

// node fills in the members of an object or context vertex.
func (c *modelCompiler) node(vertex *graph.Vertex, v cue.Value, isObject bool) error {
	allowed := contextFields
	if isObject {
		allowed = objectFields
	}
	if err := checkFields(v, allowed, vertex.FullName()); err != nil {
		return err
	}

	concurrent, ok, err := optionalBool(v, "concurrent")
	if err != nil {
		return err
	}
	if ok && concurrent {
		c.b.Concurrent(vertex)
	}

	dims, err := stringList(v, "dims")
	if err != nil {
		return err
	}
	for _, d := range dims {
		c.b.Dim(vertex, d)
	}
	bitsets, err := stringList(v, "bitsets")
	if err != nil {
		return err
	}
	for _, d := range bitsets {
		c.b.Bitset(vertex, d)
	}

	if err := c.linksOf(vertex, v); err != nil {
		return err
	}

	if err := c.paths(v, "transitions", func(p graph.TypePath) { c.b.Transition(vertex, p...) }); err != nil {
		return err
	}
	if !isObject {
		if err := c.paths(v, "events", func(p graph.TypePath) { c.b.Event(vertex, p...) }); err != nil {
			return err
		}
	}

	contexts := v.LookupPath(cue.ParsePath("contexts"))
	if !contexts.Exists() {
		return nil
	}
	iter, err := contexts.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		child, err := c.context(vertex, iter.Label(), iter.Value())
		if err != nil {
			return err
		}
		if err := c.node(child, iter.Value(), false); err != nil {
			return err
		}
	}
	return nil
}

func (c *modelCompiler) context(parent *graph.Vertex, name string, v cue.Value) (*graph.Vertex, error) {
	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return nil, &CompileError{Field: "kind", Message: fmt.Sprintf("context %s.%s: kind is required", parent.FullName(), name), Pos: v.Pos()}
	}
	kindName, err := kindVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	kind, ok := graph.ParseContextKind(kindName)
	if !ok {
		return nil, &CompileError{Field: "kind", Message: fmt.Sprintf("unknown context kind %q", kindName), Pos: kindVal.Pos()}
	}

	size := int64(1)
	if sizeVal := v.LookupPath(cue.ParsePath("size")); sizeVal.Exists() {
		size, err = sizeVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if size < 1 {
			return nil, &CompileError{Field: "size", Message: fmt.Sprintf("size must be at least 1, got %d", size), Pos: sizeVal.Pos()}
		}
	}
	return c.b.Context(parent, kind, name, size), nil
}

func (c *modelCompiler) linksOf(vertex *graph.Vertex, v cue.Value) error {
	links := v.LookupPath(cue.ParsePath("links"))
	if !links.Exists() {
		return nil
	}
	iter, err := links.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		lv := iter.Value()
		if err := checkFields(lv, linkFields, vertex.FullName()+"."+name); err != nil {
			return err
		}

		kind := graph.LinkNormal
		if kv := lv.LookupPath(cue.ParsePath("kind")); kv.Exists() {
			s, err := kv.String()
			if err != nil {
				return formatCUEError(err)
			}
			switch s {
			case "normal":
			case "ownership":
				kind = graph.LinkOwnership
			default:
				return &CompileError{Field: "links.kind", Message: fmt.Sprintf("unknown link kind %q", s), Pos: kv.Pos()}
			}
		}
		link := c.b.Link(vertex, name, kind)
		c.links[link.FullName()] = link

		targets := lv.LookupPath(cue.ParsePath("targets"))
		if !targets.Exists() {
			continue
		}
		list, err := targets.List()
		if err != nil {
			return formatCUEError(err)
		}
		for list.Next() {
			if err := c.target(link, list.Value()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *modelCompiler) target(link *graph.Vertex, v cue.Value) error {
	if err := checkFields(v, targetFields, link.FullName()+".targets"); err != nil {
		return err
	}
	toVal := v.LookupPath(cue.ParsePath("to"))
	if !toVal.Exists() {
		return &CompileError{Field: "links.targets.to", Message: "to is required", Pos: v.Pos()}
	}
	to, err := toVal.String()
	if err != nil {
		return formatCUEError(err)
	}
	var card graph.Cardinality
	if card.Many, _, err = optionalBool(v, "many"); err != nil {
		return err
	}
	if card.Optional, _, err = optionalBool(v, "optional"); err != nil {
		return err
	}
	c.targets = append(c.targets, pendingTarget{from: link, to: to, card: card, pos: toVal.Pos()})
	return nil
}

func (c *modelCompiler) paths(v cue.Value, field string, add func(graph.TypePath)) error {
	ss, err := stringList(v, field)
	if err != nil {
		return err
	}
	for _, s := range ss {
		p, err := graph.ParseTypePath(s)
		if err != nil {
			return &CompileError{Field: field, Message: err.Error(), Pos: v.LookupPath(cue.ParsePath(field)).Pos()}
		}
		add(p)
	}
	return nil
}

func stringList(v cue.Value, field string) ([]string, error) {
	lv := v.LookupPath(cue.ParsePath(field))
	if !lv.Exists() {
		return nil, nil
	}
	iter, err := lv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

func optionalBool(v cue.Value, field string) (bool, bool, error) {
	bv := v.LookupPath(cue.ParsePath(field))
	if !bv.Exists() {
		return false, false, nil
	}
	b, err := bv.Bool()
	if err != nil {
		return false, false, formatCUEError(err)
	}
	return b, true, nil
}
