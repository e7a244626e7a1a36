package systems

import (
	"avatar-server/internal/domain"
	"container/heap"
)

// Предел раскрытых узлов на один поиск
const maxPathNodes = 8192

type pathStep struct {
	dx, dz int
}

var pathNeighborOffsets = [...]pathStep{
	{dx: 0, dz: -1},
	{dx: 1, dz: 0},
	{dx: 0, dz: 1},
	{dx: -1, dz: 0},
}

// pathNode - элемент открытого списка A*
type pathNode struct {
	pos   domain.BlockPos
	g     int
	f     int
	index int
}

type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }

func (pq pathQueue) Less(i, j int) bool {
	if pq[i].f == pq[j].f {
		return pq[i].g > pq[j].g
	}
	return pq[i].f < pq[j].f
}

func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x interface{}) {
	item := x.(*pathNode)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *pathQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// FindPath ищет маршрут по блокам от start до goal.
// Шаг - по четырем сторонам, с подъемом или спуском на один блок.
// maxRange ограничивает удаление цели от старта (follow range).
// Возвращает узлы без стартового; false, если пути нет.
func FindPath(t *domain.Terrain, start, goal domain.BlockPos, maxRange float64) ([]domain.BlockPos, bool) {
	goal, ok := snapStandable(t, goal)
	if !ok {
		return nil, false
	}
	if start.Center().DistanceTo(goal.Center()) > maxRange {
		return nil, false
	}
	if start == goal {
		return []domain.BlockPos{}, true
	}

	open := &pathQueue{}
	heap.Init(open)
	heap.Push(open, &pathNode{pos: start, g: 0, f: start.ManhattanTo(goal)})

	cameFrom := make(map[domain.BlockPos]domain.BlockPos)
	gScore := map[domain.BlockPos]int{start: 0}
	closed := make(map[domain.BlockPos]struct{})

	for open.Len() > 0 && len(closed) < maxPathNodes {
		current := heap.Pop(open).(*pathNode)
		if current.pos == goal {
			return reconstructPath(cameFrom, start, goal), true
		}
		if _, seen := closed[current.pos]; seen {
			continue
		}
		closed[current.pos] = struct{}{}

		for _, next := range walkableNeighbors(t, current.pos) {
			if _, seen := closed[next]; seen {
				continue
			}
			if next.Center().HorizontalDistanceTo(start.Center()) > maxRange+2 {
				continue
			}
			tentative := current.g + 1
			if prev, ok := gScore[next]; ok && tentative >= prev {
				continue
			}
			gScore[next] = tentative
			cameFrom[next] = current.pos
			heap.Push(open, &pathNode{pos: next, g: tentative, f: tentative + next.ManhattanTo(goal)})
		}
	}

	return nil, false
}

// walkableNeighbors - куда можно шагнуть из p
func walkableNeighbors(t *domain.Terrain, p domain.BlockPos) []domain.BlockPos {
	result := make([]domain.BlockPos, 0, 4)
	for _, step := range pathNeighborOffsets {
		flat := p.Offset(step.dx, 0, step.dz)
		switch {
		case t.IsStandable(flat):
			result = append(result, flat)
		case t.IsStandable(flat.Above()) && !t.BlockAt(p.Above().Above()).IsSolid():
			// Прыжок на блок вверх: над головой должно быть свободно
			result = append(result, flat.Above())
		case t.IsStandable(flat.Below()) && !t.BlockAt(flat.Above()).IsSolid():
			result = append(result, flat.Below())
		}
	}
	return result
}

// snapStandable подбирает ближайшую по высоте точку опоры рядом с целью
func snapStandable(t *domain.Terrain, p domain.BlockPos) (domain.BlockPos, bool) {
	for _, dy := range []int{0, 1, -1} {
		candidate := p.Offset(0, dy, 0)
		if t.IsStandable(candidate) {
			return candidate, true
		}
	}
	return p, false
}

func reconstructPath(cameFrom map[domain.BlockPos]domain.BlockPos, start, goal domain.BlockPos) []domain.BlockPos {
	path := []domain.BlockPos{goal}
	current := goal
	for current != start {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		if prev != start {
			path = append(path, prev)
		}
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
