package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/megac/internal/graph"
)

// Build runs fn against a fresh builder and fails the test if the model
// does not build.
func Build(t testing.TB, fn func(b *graph.Builder)) *graph.Model {
	t.Helper()
	b := graph.NewBuilder()
	fn(b)
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

// Vertex looks up a vertex by full name and fails the test if it is missing.
func Vertex(t testing.TB, m *graph.Model, fullName string) *graph.Vertex {
	t.Helper()
	v, ok := m.Lookup(fullName)
	require.True(t, ok, "vertex %q not in model", fullName)
	return v
}

// ChildModel is object X with a single state child Y.
func ChildModel(t testing.TB) *graph.Model {
	return Build(t, func(b *graph.Builder) {
		x := b.Object("X")
		b.Context(x, graph.ContextState, "Y", 1)
	})
}

// TwinModel is object X with two state children Y1 and Y2.
func TwinModel(t testing.TB) *graph.Model {
	return Build(t, func(b *graph.Builder) {
		x := b.Object("X")
		b.Context(x, graph.ContextState, "Y1", 1)
		b.Context(x, graph.ContextState, "Y2", 1)
	})
}

// LinkModel is object X whose link L targets links in objects T1 and T2.
// Only T1 has a state Foo; X has a dimension Bar.
func LinkModel(t testing.TB) *graph.Model {
	return Build(t, func(b *graph.Builder) {
		x := b.Object("X")
		l := b.Link(x, "L", graph.LinkNormal)
		b.Dim(x, "Bar")

		t1 := b.Object("T1")
		back1 := b.Link(t1, "Back1", graph.LinkNormal)
		b.Context(t1, graph.ContextState, "Foo", 1)

		t2 := b.Object("T2")
		back2 := b.Link(t2, "Back2", graph.LinkNormal)

		b.LinkTo(l, back1, graph.Cardinality{})
		b.LinkTo(l, back2, graph.Cardinality{})
		b.LinkTo(back1, l, graph.Cardinality{Many: true})
		b.LinkTo(back2, l, graph.Cardinality{Many: true})
	})
}

// MachineModel has an Or root over S1, S2 and S3 (two instances of S3).
// Interupt Go may transition to any of them; decider Pick resolves the
// choice with events declared in the order S3, S1, S2.
func MachineModel(t testing.TB) *graph.Model {
	return Build(t, func(b *graph.Builder) {
		m := b.Object("Machine")
		b.Context(m, graph.ContextState, "S1", 1)
		b.Context(m, graph.ContextState, "S2", 1)
		b.Context(m, graph.ContextState, "S3", 2)

		goI := b.Context(m, graph.ContextInterupt, "Go", 1)
		b.Transition(goI, "S1")
		b.Transition(goI, "S2")
		b.Transition(goI, "S3")

		pick := b.Context(m, graph.ContextDecider, "Pick", 1)
		b.Event(pick, "S3")
		b.Event(pick, "S1")
		b.Event(pick, "S2")
	})
}

// DoorModel nests a second choice below one transition target: Open is
// itself an Or over Ajar and Wide. Which picks Open or Closed; HowOpen
// reports whether the door is ajar.
func DoorModel(t testing.TB) *graph.Model {
	return Build(t, func(b *graph.Builder) {
		d := b.Object("Door")
		open := b.Context(d, graph.ContextState, "Open", 1)
		b.Context(open, graph.ContextState, "Ajar", 1)
		b.Context(open, graph.ContextState, "Wide", 1)
		b.Context(d, graph.ContextState, "Closed", 1)

		push := b.Context(d, graph.ContextInterupt, "Push", 1)
		b.Transition(push, "Open")
		b.Transition(push, "Closed")

		which := b.Context(d, graph.ContextDecider, "Which", 1)
		b.Event(which, "Open")
		b.Event(which, "Closed")

		how := b.Context(d, graph.ContextDecider, "HowOpen", 1)
		b.Event(how, "Ajar")
	})
}

// ValveModel nests a three-way choice below Flow. Rate declares its events
// out of automaton order.
func ValveModel(t testing.TB) *graph.Model {
	return Build(t, func(b *graph.Builder) {
		v := b.Object("Valve")
		b.Context(v, graph.ContextState, "Shut", 1)
		flow := b.Context(v, graph.ContextState, "Flow", 1)
		b.Context(flow, graph.ContextState, "Low", 1)
		b.Context(flow, graph.ContextState, "Mid", 1)
		b.Context(flow, graph.ContextState, "High", 1)

		turn := b.Context(v, graph.ContextInterupt, "Turn", 1)
		b.Transition(turn, "Shut")
		b.Transition(turn, "Flow")

		mode := b.Context(v, graph.ContextDecider, "Mode", 1)
		b.Event(mode, "Shut")
		b.Event(mode, "Flow")

		rate := b.Context(v, graph.ContextDecider, "Rate", 1)
		b.Event(rate, "High")
		b.Event(rate, "Low")
		b.Event(rate, "Mid")
	})
}

// LampModel toggles between On and Off through state transitions; no
// decider is needed.
func LampModel(t testing.TB) *graph.Model {
	return Build(t, func(b *graph.Builder) {
		l := b.Object("Lamp")
		on := b.Context(l, graph.ContextState, "On", 1)
		off := b.Context(l, graph.ContextState, "Off", 1)
		b.Transition(on, "Off")
		b.Transition(off, "On")
	})
}

// PanelModel has a concurrent root with two independent binary choices.
func PanelModel(t testing.TB) *graph.Model {
	return Build(t, func(b *graph.Builder) {
		p := b.Object("Panel")
		b.Concurrent(p)
		a := b.Context(p, graph.ContextState, "A", 1)
		b.Context(a, graph.ContextState, "A1", 1)
		b.Context(a, graph.ContextState, "A2", 1)
		bb := b.Context(p, graph.ContextState, "B", 1)
		b.Context(bb, graph.ContextState, "B1", 1)
		b.Context(bb, graph.ContextState, "B2", 1)
	})
}

// RobotModel links Robot.tool and Tool.holder both ways. Interupt Alarm
// listens to Fire on the linked tool.
func RobotModel(t testing.TB) *graph.Model {
	return Build(t, func(b *graph.Builder) {
		r := b.Object("Robot")
		tool := b.Link(r, "tool", graph.LinkNormal)
		alarm := b.Context(r, graph.ContextInterupt, "Alarm", 1)
		b.Event(alarm, "tool", "Fire")

		tl := b.Object("Tool")
		holder := b.Link(tl, "holder", graph.LinkNormal)
		b.Context(tl, graph.ContextEvent, "Fire", 1)

		b.LinkTo(tool, holder, graph.Cardinality{})
		b.LinkTo(holder, tool, graph.Cardinality{Optional: true})
	})
}
