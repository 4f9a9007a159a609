package graph

import "strings"

// ShortestPath runs an unweighted breadth-first search over the undirected
// adjacency and returns the node sequence from source to target inclusive,
// or nil if the nodes are disconnected or unknown. Neighbors are visited in
// edge insertion order, so repeated queries on an unchanged graph always
// return the same path.
func (ix *Index) ShortestPath(sourceID, targetID string) []*Node {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if _, ok := ix.nodes[sourceID]; !ok {
		return nil
	}
	if _, ok := ix.nodes[targetID]; !ok {
		return nil
	}
	if sourceID == targetID {
		return []*Node{ix.nodes[sourceID]}
	}

	prev := map[string]string{sourceID: ""}
	queue := []string{sourceID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, edgeID := range ix.incident[current] {
			next := ix.edges[edgeID].Other(current)
			if _, seen := prev[next]; seen {
				continue
			}
			if _, ok := ix.nodes[next]; !ok {
				continue
			}
			prev[next] = current
			if next == targetID {
				return ix.buildPath(prev, sourceID, targetID)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

// buildPath assumes the read lock is held.
func (ix *Index) buildPath(prev map[string]string, sourceID, targetID string) []*Node {
	var ids []string
	for at := targetID; at != ""; at = prev[at] {
		ids = append(ids, at)
		if at == sourceID {
			break
		}
	}
	path := make([]*Node, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		path = append(path, ix.nodes[ids[i]])
	}
	return path
}

// NodesByIndustry returns nodes whose industry contains the given substring,
// case-insensitively, in insertion order.
func (ix *Index) NodesByIndustry(industry string) []*Node {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	q := strings.ToLower(industry)
	var out []*Node
	for _, id := range ix.nodeOrder {
		n := ix.nodes[id]
		if strings.Contains(strings.ToLower(n.Occupation.Industry), q) {
			out = append(out, n)
		}
	}
	return out
}
