package graph

import "sort"

// ConnectedComponents returns the connected components of the model as
// groups of dense indices. Each group is sorted ascending and groups are
// ordered by their smallest member, so the same model always yields the
// same result.
func (m *Model) ConnectedComponents() [][]int {
	n := m.Size()
	visited := make([]bool, n)
	var components [][]int

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		var component []int
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			component = append(component, v)
			for _, nb := range m.Neighbors(v) {
				if !visited[nb] {
					visited[nb] = true
					queue = append(queue, nb)
				}
			}
		}
		sort.Ints(component)
		components = append(components, component)
	}
	return components
}
