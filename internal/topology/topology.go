// Package topology checks that the joints of a robot form a kinematic tree.
//
// Links are graph nodes and every joint is an edge from its parent link to its
// child link. A well formed robot has exactly one root, no cycles and at most
// one parent joint per link.
package topology

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/Faultbox/sdfexport/pkg/sdf"
)

// Report describes the link graph of a robot. Names are listed in model order.
type Report struct {
	// Roots are links with children but no parent joint.
	Roots []string
	// Orphans are links that no joint touches.
	Orphans []string
	// Cycles lists each directed cycle, starting at its first link in model order.
	Cycles [][]string
	// MultiParent are links that are the child of more than one joint.
	MultiParent []string
	// SelfJoints are joints whose parent and child are the same link.
	SelfJoints []string
	// Dangling are joints that reference a link outside the robot.
	Dangling []string
	// Order is a parent-before-child ordering of the links, or nil when the
	// graph has a cycle.
	Order []string
}

// Analyze builds the link graph of r and reports on its shape.
func Analyze(r *sdf.Robot) Report {
	g := simple.NewDirectedGraph()
	ids := make(map[string]int64, len(r.Links))
	names := make(map[int64]string, len(r.Links))
	for i, l := range r.Links {
		id := int64(i)
		ids[l.Name] = id
		names[id] = l.Name
		g.AddNode(simple.Node(id))
	}

	var rep Report
	parents := make(map[int64]int)
	for _, j := range r.Joints {
		from, okFrom := linkID(ids, j.Parent)
		to, okTo := linkID(ids, j.Child)
		if !okFrom || !okTo {
			rep.Dangling = append(rep.Dangling, j.Name)
			continue
		}
		if from == to {
			rep.SelfJoints = append(rep.SelfJoints, j.Name)
			continue
		}
		parents[to]++
		g.SetEdge(g.NewEdge(simple.Node(from), simple.Node(to)))
	}

	for i, l := range r.Links {
		id := int64(i)
		in, out := g.To(id).Len(), g.From(id).Len()
		switch {
		case in == 0 && out == 0 && len(r.Links) > 1:
			rep.Orphans = append(rep.Orphans, l.Name)
		case in == 0:
			rep.Roots = append(rep.Roots, l.Name)
		}
		if parents[id] > 1 {
			rep.MultiParent = append(rep.MultiParent, l.Name)
		}
	}

	for _, cycle := range topo.DirectedCyclesIn(g) {
		rep.Cycles = append(rep.Cycles, cycleNames(cycle, names))
	}
	sort.Slice(rep.Cycles, func(a, b int) bool {
		return strings.Join(rep.Cycles[a], "\x00") < strings.Join(rep.Cycles[b], "\x00")
	})

	if len(rep.Cycles) == 0 {
		order, err := topo.SortStabilized(g, byID)
		if err == nil {
			for _, n := range order {
				rep.Order = append(rep.Order, names[n.ID()])
			}
		}
	}
	return rep
}

// IsTree reports whether the links form a single tree.
func (r Report) IsTree() bool {
	return len(r.Roots) <= 1 &&
		len(r.Orphans) == 0 &&
		len(r.Cycles) == 0 &&
		len(r.MultiParent) == 0 &&
		len(r.SelfJoints) == 0 &&
		len(r.Dangling) == 0
}

// Problems returns one line per finding, or nil for a tree.
func (r Report) Problems() []string {
	var out []string
	if len(r.Roots) > 1 {
		out = append(out, fmt.Sprintf("%d root links: %s", len(r.Roots), strings.Join(r.Roots, ", ")))
	}
	for _, name := range r.Orphans {
		out = append(out, fmt.Sprintf("link %s is not connected by any joint", name))
	}
	for _, c := range r.Cycles {
		out = append(out, "joint cycle: "+strings.Join(c, " -> ")+" -> "+c[0])
	}
	for _, name := range r.MultiParent {
		out = append(out, fmt.Sprintf("link %s is the child of more than one joint", name))
	}
	for _, name := range r.SelfJoints {
		out = append(out, fmt.Sprintf("joint %s connects a link to itself", name))
	}
	for _, name := range r.Dangling {
		out = append(out, fmt.Sprintf("joint %s references a link outside the model", name))
	}
	return out
}

func linkID(ids map[string]int64, l *sdf.Link) (int64, bool) {
	if l == nil {
		return 0, false
	}
	id, ok := ids[l.Name]
	return id, ok
}

// cycleNames drops the closing node gonum repeats and rotates the cycle to
// start at its lowest ID.
func cycleNames(cycle []graph.Node, names map[int64]string) []string {
	if n := len(cycle); n > 1 && cycle[0].ID() == cycle[n-1].ID() {
		cycle = cycle[:n-1]
	}
	start := 0
	for i, n := range cycle {
		if n.ID() < cycle[start].ID() {
			start = i
		}
	}
	out := make([]string, 0, len(cycle))
	for i := range cycle {
		out = append(out, names[cycle[(start+i)%len(cycle)].ID()])
	}
	return out
}

func byID(nodes []graph.Node) {
	sort.Slice(nodes, func(a, b int) bool { return nodes[a].ID() < nodes[b].ID() })
}
