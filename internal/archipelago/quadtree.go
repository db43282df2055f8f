package archipelago

// Quadtree indexes island footprints for point queries. Rebuilt whenever
// the island set changes; read-only afterwards.

const quadLeafCapacity = 4

type qrect struct {
	x0, y0, x1, y1 float64
}

func (r qrect) containsPoint(x, y float64) bool {
	return x >= r.x0 && x < r.x1 && y >= r.y0 && y < r.y1
}

func (r qrect) containsRect(o qrect) bool {
	return o.x0 >= r.x0 && o.y0 >= r.y0 && o.x1 <= r.x1 && o.y1 <= r.y1
}

func (s *IslandSpec) footprintRect() qrect {
	fp := s.footprint()
	return qrect{s.CenterX - fp, s.CenterY - fp, s.CenterX + fp, s.CenterY + fp}
}

type qnode struct {
	bounds   qrect
	items    []*IslandSpec
	children *[4]qnode
}

// Quadtree holds the root node. Leaf nodes split once they exceed
// quadLeafCapacity items; items straddling a split stay on the inner node.
type Quadtree struct {
	root qnode
}

func buildQuadtree(bounds qrect, islands []*IslandSpec) *Quadtree {
	qt := &Quadtree{root: qnode{bounds: bounds}}
	for _, s := range islands {
		qt.root.insert(s)
	}
	return qt
}

func (n *qnode) insert(s *IslandSpec) {
	if n.children == nil {
		if len(n.items) < quadLeafCapacity {
			n.items = append(n.items, s)
			return
		}
		n.subdivide()
	}
	fr := s.footprintRect()
	for i := range n.children {
		if n.children[i].bounds.containsRect(fr) {
			n.children[i].insert(s)
			return
		}
	}
	n.items = append(n.items, s)
}

func (n *qnode) subdivide() {
	mx := (n.bounds.x0 + n.bounds.x1) / 2
	my := (n.bounds.y0 + n.bounds.y1) / 2
	n.children = &[4]qnode{
		{bounds: qrect{n.bounds.x0, n.bounds.y0, mx, my}},
		{bounds: qrect{mx, n.bounds.y0, n.bounds.x1, my}},
		{bounds: qrect{n.bounds.x0, my, mx, n.bounds.y1}},
		{bounds: qrect{mx, my, n.bounds.x1, n.bounds.y1}},
	}
	keep := n.items[:0]
	for _, s := range n.items {
		fr := s.footprintRect()
		moved := false
		for i := range n.children {
			if n.children[i].bounds.containsRect(fr) {
				n.children[i].insert(s)
				moved = true
				break
			}
		}
		if !moved {
			keep = append(keep, s)
		}
	}
	n.items = keep
}

// QueryPoint returns every island whose influence circle covers (x, y), in
// island id order.
func (q *Quadtree) QueryPoint(x, y float64) []*IslandSpec {
	var out []*IslandSpec
	q.root.query(x, y, &out)
	// Insertion order already follows island ids at each node, but items
	// can be found at different depths; restore id order.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].ID > out[j].ID; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func (n *qnode) query(x, y float64, out *[]*IslandSpec) {
	for _, s := range n.items {
		fp := s.footprint()
		dx, dy := x-s.CenterX, y-s.CenterY
		if dx*dx+dy*dy <= fp*fp {
			*out = append(*out, s)
		}
	}
	if n.children == nil {
		return
	}
	for i := range n.children {
		if n.children[i].bounds.containsPoint(x, y) {
			n.children[i].query(x, y, out)
			return
		}
	}
}
