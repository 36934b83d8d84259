package interact

import "math"

type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in world coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Distance returns the shortest Euclidean distance from p to the rectangle,
// zero when p is inside.
func (r Rect) Distance(p Point) float64 {
	cx := clamp(p.X, r.X, r.X+r.Width)
	cy := clamp(p.Y, r.Y, r.Y+r.Height)
	return math.Hypot(p.X-cx, p.Y-cy)
}

// Interactable is one region the user can act on. Contains, when set,
// filters candidates with finer granularity than the bounds.
type Interactable struct {
	ID       string
	Bounds   Rect
	Priority int
	Contains func(p Point) bool
	Interact func()
}

// Registry resolves "what did the user just try to interact with". Higher
// priority wins over shorter distance; distance only breaks priority ties,
// so deliberately important objects beat merely closer ones.
type Registry struct {
	interactables map[string]Interactable
}

func NewRegistry() *Registry {
	return &Registry{interactables: make(map[string]Interactable)}
}

func (r *Registry) Register(it Interactable) {
	r.interactables[it.ID] = it
}

func (r *Registry) Unregister(id string) {
	delete(r.interactables, id)
}

func (r *Registry) Clear() {
	r.interactables = make(map[string]Interactable)
}

func (r *Registry) Len() int {
	return len(r.interactables)
}

// InteractAt triggers the interactable containing p exactly, if any.
func (r *Registry) InteractAt(p Point) bool {
	return r.interact(p, 0)
}

// InteractNear triggers the best interactable within maxDistance of p.
func (r *Registry) InteractNear(p Point, maxDistance float64) bool {
	return r.interact(p, maxDistance)
}

func (r *Registry) interact(p Point, maxDistance float64) bool {
	target := r.findClosest(p, maxDistance)
	if target == nil {
		return false
	}
	if target.Interact != nil {
		target.Interact()
	}
	return true
}

func (r *Registry) findClosest(p Point, maxDistance float64) *Interactable {
	var best *Interactable
	bestPriority := math.MinInt
	bestDistance := math.Inf(1)

	for id := range r.interactables {
		it := r.interactables[id]
		if it.Contains != nil && !it.Contains(p) {
			continue
		}
		distance := it.Bounds.Distance(p)
		if distance > maxDistance {
			continue
		}
		if it.Priority > bestPriority || (it.Priority == bestPriority && distance < bestDistance) {
			best = &it
			bestPriority = it.Priority
			bestDistance = distance
		}
	}
	return best
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
