// Package topology describes the nodes and directed links of one run, built
// from a caller-chosen path of relay ids.
package topology

import (
	"fmt"
	"sort"

	"github.com/sarchlab/leorelay/geometry"
)

// Role is the part a node plays in a run.
type Role int

// The roles of a node.
const (
	RoleRelay Role = iota
	RoleSource
	RoleSink
)

func (r Role) String() string {
	switch r {
	case RoleSource:
		return "Source"
	case RoleSink:
		return "Sink"
	default:
		return "Relay"
	}
}

// A Node is a ground station or a satellite.
type Node struct {
	ID       int
	Position geometry.Vector
	Role     Role
}

// Name returns a printable name such as "Relay[3]".
func (n Node) Name() string {
	return fmt.Sprintf("%s[%d]", n.Role, n.ID)
}

// A Link is a directed hop from one node to another.
type Link struct {
	From             int
	To               int
	PropagationDelay float64
	Rate             float64
}

type linkKey struct {
	from, to int
}

// A Path is the ordered list of relay ids a payload visits between the Source
// and the Sink. Revisiting a relay is allowed.
type Path []int

// DefaultPath is used when the caller supplies an empty path.
var DefaultPath = Path{1}

// A Topology holds the nodes and links of a single run. It is not modified
// once the run starts.
type Topology struct {
	sourceID   int
	sinkID     int
	compressor int
	path       Path
	nodes      map[int]Node
	links      map[linkKey]Link
	linkOrder  []linkKey
}

// SourceID returns the id of the Source node.
func (t *Topology) SourceID() int {
	return t.sourceID
}

// SinkID returns the id of the Sink node.
func (t *Topology) SinkID() int {
	return t.sinkID
}

// Compressor returns the id of the relay that compresses payloads, or -1 if
// the path has no relay with a known position.
func (t *Topology) Compressor() int {
	return t.compressor
}

// Path returns a copy of the path this topology was built from, after the
// default substitution.
func (t *Topology) Path() Path {
	p := make(Path, len(t.path))
	copy(p, t.path)

	return p
}

// Node returns the node with the given id.
func (t *Topology) Node(id int) (Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Nodes returns all the nodes sorted by id.
func (t *Topology) Nodes() []Node {
	nodes := make([]Node, 0, len(t.nodes))
	for _, n := range t.nodes {
		nodes = append(nodes, n)
	}

	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].ID < nodes[j].ID
	})

	return nodes
}

// Link returns the link from one node to another.
func (t *Topology) Link(from, to int) (Link, bool) {
	l, ok := t.links[linkKey{from, to}]
	return l, ok
}

// Links returns the links in the order they were created.
func (t *Topology) Links() []Link {
	links := make([]Link, 0, len(t.linkOrder))
	for _, k := range t.linkOrder {
		links = append(links, t.links[k])
	}

	return links
}

// RemoveLink deletes a link. It reports whether the link existed. It is meant
// for building deliberately broken scenarios before a run starts.
func (t *Topology) RemoveLink(from, to int) bool {
	k := linkKey{from, to}
	if _, ok := t.links[k]; !ok {
		return false
	}

	delete(t.links, k)

	for i, lk := range t.linkOrder {
		if lk == k {
			t.linkOrder = append(t.linkOrder[:i], t.linkOrder[i+1:]...)
			break
		}
	}

	return true
}

// NodeAt returns the id of the node at a position of the route. Position -1
// is the Source, positions 0..len(path)-1 are the relays, and len(path) is
// the Sink.
func (t *Topology) NodeAt(position int) (int, bool) {
	switch {
	case position == -1:
		return t.sourceID, true
	case position >= 0 && position < len(t.path):
		return t.path[position], true
	case position == len(t.path):
		return t.sinkID, true
	default:
		return 0, false
	}
}

// NextHop returns the node following route position, which is the path
// successor, or the Sink after the last relay.
func (t *Topology) NextHop(position int) (int, bool) {
	if position >= len(t.path) {
		return 0, false
	}

	return t.NodeAt(position + 1)
}

// Hops returns the number of hops from Source to Sink.
func (t *Topology) Hops() int {
	return len(t.path) + 1
}
