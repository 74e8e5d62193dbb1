package navigation

// Walk visits every node depth-first, parents before children. depth is 0
// for the roots.
func Walk(nodes []NavNode, fn func(depth int, node NavNode)) {
	var visit func(depth int, nodes []NavNode)
	visit = func(depth int, nodes []NavNode) {
		for _, node := range nodes {
			fn(depth, node)
			visit(depth+1, node.Children)
		}
	}
	visit(0, nodes)
}

// ActiveTrail returns the labels from the root to the active node, or nil
// when nothing is active.
func ActiveTrail(nodes []NavNode) []string {
	for _, node := range nodes {
		if node.Active {
			return []string{node.Label}
		}
		if trail := ActiveTrail(node.Children); trail != nil {
			return append([]string{node.Label}, trail...)
		}
	}

	return nil
}
