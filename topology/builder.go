package topology

import (
	"github.com/sarchlab/leorelay/geometry"
)

// Builder can build topologies.
type Builder struct {
	positions  map[int]geometry.Vector
	rate       float64
	sourceID   int
	sinkID     int
	delayMode  geometry.DelayMode
	fixedDelay float64
}

// MakeBuilder creates a builder with the default ground station ids (0 and
// 8) and a 100 kbit/s link rate.
func MakeBuilder() Builder {
	return Builder{
		positions: make(map[int]geometry.Vector),
		rate:      100e3,
		sourceID:  0,
		sinkID:    8,
	}
}

// WithPositions sets the position of every known node.
func (b Builder) WithPositions(positions map[int]geometry.Vector) Builder {
	b.positions = positions
	return b
}

// WithRate sets the data rate of every link, in bits per second.
func (b Builder) WithRate(rateBps float64) Builder {
	b.rate = rateBps
	return b
}

// WithSourceID sets the id of the Source node.
func (b Builder) WithSourceID(id int) Builder {
	b.sourceID = id
	return b
}

// WithSinkID sets the id of the Sink node.
func (b Builder) WithSinkID(id int) Builder {
	b.sinkID = id
	return b
}

// WithDelayMode sets how propagation delays are derived.
func (b Builder) WithDelayMode(mode geometry.DelayMode) Builder {
	b.delayMode = mode
	return b
}

// WithFixedDelay sets the per-link delay used by geometry.DelayModeFixed.
func (b Builder) WithFixedDelay(seconds float64) Builder {
	b.fixedDelay = seconds
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.rate <= 0 {
		panic("link rate must be positive")
	}

	if b.sourceID == b.sinkID {
		panic("source and sink must be different nodes")
	}

	if _, ok := b.positions[b.sourceID]; !ok {
		panic("source position is not given")
	}

	if _, ok := b.positions[b.sinkID]; !ok {
		panic("sink position is not given")
	}
}

// Build creates the topology for path. An empty path is replaced by
// DefaultPath. Relay ids without a known position produce no node and no
// links, so a payload routed through them gets dropped.
func (b Builder) Build(path Path) *Topology {
	b.parametersMustBeValid()

	if len(path) == 0 {
		path = DefaultPath
	}

	t := &Topology{
		sourceID:   b.sourceID,
		sinkID:     b.sinkID,
		compressor: -1,
		path:       make(Path, len(path)),
		nodes:      make(map[int]Node),
		links:      make(map[linkKey]Link),
	}
	copy(t.path, path)

	b.addNode(t, b.sourceID, RoleSource)
	b.addNode(t, b.sinkID, RoleSink)

	for _, id := range t.path {
		b.addNode(t, id, RoleRelay)
	}

	if _, ok := t.nodes[t.path[0]]; ok {
		t.compressor = t.path[0]
	}

	b.connect(t, b.sourceID, t.path[0])
	for i := 0; i+1 < len(t.path); i++ {
		b.connect(t, t.path[i], t.path[i+1])
	}
	b.connect(t, t.path[len(t.path)-1], b.sinkID)

	return t
}

func (b Builder) addNode(t *Topology, id int, role Role) {
	if _, exists := t.nodes[id]; exists {
		return
	}

	pos, ok := b.positions[id]
	if !ok {
		return
	}

	t.nodes[id] = Node{ID: id, Position: pos, Role: role}
}

func (b Builder) connect(t *Topology, from, to int) {
	k := linkKey{from, to}
	if _, exists := t.links[k]; exists {
		return
	}

	a, okA := t.nodes[from]
	z, okZ := t.nodes[to]
	if !okA || !okZ {
		return
	}

	t.links[k] = Link{
		From:             from,
		To:               to,
		PropagationDelay: geometry.LinkDelay(b.delayMode, a.Position, z.Position, b.fixedDelay),
		Rate:             b.rate,
	}
	t.linkOrder = append(t.linkOrder, k)
}
