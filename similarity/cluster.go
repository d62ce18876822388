package similarity

import "sort"

// Cluster is a connected component of students linked by one or more
// above-threshold pairs, across every question at once: a pair on Q1 and a
// pair on Q2 sharing a student merge into the same cluster.
type Cluster struct {
	ID       int
	Students []string
}

// Clusters groups pairs into connected components via depth-first search
// over the implied graph (students as nodes, pairs as edges, duplicates
// across questions collapsing to a single adjacency) — the same fallback
// the original used when no graph library was available. Callers pass every
// PlagiarismCase from every question in one call so clusters merge across
// questions. Only components with more than one student are returned; an
// isolated match-free student never appears here.
func Clusters(pairs []Pair) []Cluster {
	connections := make(map[string]map[string]bool)
	addEdge := func(a, b string) {
		if connections[a] == nil {
			connections[a] = make(map[string]bool)
		}
		connections[a][b] = true
	}
	for _, p := range pairs {
		addEdge(p.StudentA, p.StudentB)
		addEdge(p.StudentB, p.StudentA)
	}

	var students []string
	for s := range connections {
		students = append(students, s)
	}
	sort.Strings(students)

	visited := make(map[string]bool)
	var clusters []Cluster
	id := 1

	for _, student := range students {
		if visited[student] {
			continue
		}
		component := dfsComponent(student, connections, visited)
		if len(component) > 1 {
			sort.Strings(component)
			clusters = append(clusters, Cluster{ID: id, Students: component})
			id++
		}
	}
	return clusters
}

func dfsComponent(start string, connections map[string]map[string]bool, visited map[string]bool) []string {
	var component []string
	stack := []string{start}
	for len(stack) > 0 {
		n := len(stack) - 1
		student := stack[n]
		stack = stack[:n]
		if visited[student] {
			continue
		}
		visited[student] = true
		component = append(component, student)

		neighbors := make([]string, 0, len(connections[student]))
		for neighbor := range connections[student] {
			neighbors = append(neighbors, neighbor)
		}
		sort.Strings(neighbors)
		for _, neighbor := range neighbors {
			if !visited[neighbor] {
				stack = append(stack, neighbor)
			}
		}
	}
	return component
}
