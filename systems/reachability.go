package systems

var neighbors4 = [4]Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// ShortestPath runs a breadth-first search over walkable cells using
// 4-connected moves. It returns the number of moves from `from` to `to` and
// whether `to` is reachable. Blocked endpoints are unreachable.
func ShortestPath(g *Grid, from, to Point) (int, bool) {
	if g.IsBlocked(from.X, from.Y) || g.IsBlocked(to.X, to.Y) {
		return 0, false
	}
	if from == to {
		return 0, true
	}

	dist := make([]int, g.width*g.height)
	for i := range dist {
		dist[i] = -1
	}
	dist[g.Index(from.X, from.Y)] = 0

	queue := make([]Point, 0, g.width*g.height)
	queue = append(queue, from)

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		d := dist[g.Index(cur.X, cur.Y)]

		for _, n := range neighbors4 {
			nx, ny := cur.X+n.X, cur.Y+n.Y
			if g.IsBlocked(nx, ny) {
				continue
			}
			idx := g.Index(nx, ny)
			if dist[idx] >= 0 {
				continue
			}
			dist[idx] = d + 1
			if nx == to.X && ny == to.Y {
				return d + 1, true
			}
			queue = append(queue, Point{nx, ny})
		}
	}

	return 0, false
}

// Reachable reports whether a walkable 4-connected path joins from and to.
func Reachable(g *Grid, from, to Point) bool {
	_, ok := ShortestPath(g, from, to)
	return ok
}
