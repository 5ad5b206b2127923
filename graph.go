package arbor

// DependencyGraph records types and the types their constructors require.
type DependencyGraph struct {
	nodes map[string]*node
	order []string // Preserve registration order
}

type node struct {
	name         string
	dependencies []string
}

// NewDependencyGraph creates a new dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[string]*node),
		order: make([]string, 0),
	}
}

// AddNode adds a node with its dependencies.
// Nodes are processed in the order they are added (FIFO) when no dependencies exist.
func (g *DependencyGraph) AddNode(name string, dependencies []string) {
	if _, exists := g.nodes[name]; !exists {
		g.order = append(g.order, name)
	}

	g.nodes[name] = &node{
		name:         name,
		dependencies: dependencies,
	}
}

// GetDependencies returns the dependency names for a node.
func (g *DependencyGraph) GetDependencies(name string) []string {
	if node, ok := g.nodes[name]; ok {
		return node.dependencies
	}

	return nil
}

// HasNode checks if a node exists in the graph.
func (g *DependencyGraph) HasNode(name string) bool {
	_, ok := g.nodes[name]

	return ok
}

// TopologicalSort returns nodes in dependency order.
// Nodes without dependencies maintain their registration order (FIFO).
// Returns error if circular dependency detected.
func (g *DependencyGraph) TopologicalSort() ([]string, error) {
	visited := make(map[string]bool)
	var path []string
	result := make([]string, 0, len(g.nodes))

	for _, name := range g.order {
		if err := g.visit(name, visited, &path, &result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// visit performs DFS traversal. path holds the nodes currently being visited.
func (g *DependencyGraph) visit(name string, visited map[string]bool, path *[]string, result *[]string) error {
	if visited[name] {
		return nil
	}

	for i, onPath := range *path {
		if onPath == name {
			cycle := append(append([]string(nil), (*path)[i:]...), name)

			return ErrCircularDependency(cycle)
		}
	}

	node := g.nodes[name]
	if node == nil {
		// Not registered, nothing to order
		return nil
	}

	*path = append(*path, name)

	for _, dep := range node.dependencies {
		if err := g.visit(dep, visited, path, result); err != nil {
			return err
		}
	}

	*path = (*path)[:len(*path)-1]
	visited[name] = true
	*result = append(*result, name)

	return nil
}
