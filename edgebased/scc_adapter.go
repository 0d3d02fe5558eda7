package edgebased

import "github.com/katalvlaran/routekernel/scc"

// sccGraph adapts Result's edge list into scc.Graph without requiring the
// caller to build their own adjacency structure.
type sccGraph struct {
	nodeCount int
	adjacency map[scc.NodeID][]scc.NodeID
}

func (g *sccGraph) NodeCount() int { return g.nodeCount }

func (g *sccGraph) ForEachSuccessor(n scc.NodeID, fn func(scc.NodeID)) {
	for _, v := range g.adjacency[n] {
		fn(v)
	}
}

// SCCGraph returns an scc.Graph view over r's edge-based edges, suitable
// for scc.Driver.Run. The node space is the doubled id space described by
// Node.ForwardID/ReverseID, sized at 2*len(r.Nodes).
func (r *Result) SCCGraph() scc.Graph {
	g := &sccGraph{
		nodeCount: len(r.Nodes) * 2,
		adjacency: make(map[scc.NodeID][]scc.NodeID, len(r.Edges)),
	}
	for _, e := range r.Edges {
		from := scc.NodeID(e.From)
		g.adjacency[from] = append(g.adjacency[from], scc.NodeID(e.To))
	}
	return g
}
