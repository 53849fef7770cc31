package gantt

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Connector geometry defaults.
const (
	// DefaultElbowOffset is how far a connector leaves its anchor before
	// turning.
	DefaultElbowOffset = 10
	// DefaultDetourOffset is the vertical distance from the source row
	// center to the horizontal run of a detour.
	DefaultDetourOffset = 20
	// DefaultLaneStep separates detours that share a pair of rows.
	DefaultLaneStep = 4

	conflictMarkerDX     = 15
	conflictMarkerDY     = -10
	conflictMarkerRadius = 8
	conflictGlyph        = "!"
)

// Point is a vertex of a connector polyline.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is the heading of a connector segment.
type Direction string

const (
	Right Direction = "right"
	Left  Direction = "left"
	Up    Direction = "up"
	Down  Direction = "down"
)

// Arrow is the arrowhead at the end of a connector.
type Arrow struct {
	Tip       Point     `json:"tip"`
	Direction Direction `json:"direction"`
}

// ConflictMarker is the glyph drawn next to the source of a conflicting edge.
type ConflictMarker struct {
	Center Point  `json:"center"`
	Radius int    `json:"radius"`
	Glyph  string `json:"glyph"`
}

// Path is a routed dependency connector.
type Path struct {
	PredecessorID       string          `json:"predecessorId"`
	SuccessorID         string          `json:"successorId"`
	Type                DependencyType  `json:"type"`
	LagDays             int             `json:"lagDays,omitempty"`
	Points              []Point         `json:"points"`
	Color               string          `json:"color"`
	Stroke              StrokeStyle     `json:"stroke"`
	Arrow               Arrow           `json:"arrow"`
	HasConflict         bool            `json:"hasConflict"`
	ConflictDescription string          `json:"conflictDescription,omitempty"`
	Marker              *ConflictMarker `json:"marker,omitempty"`
	Detour              bool            `json:"detour"`
	Lane                int             `json:"lane"`
	Highlighted         bool            `json:"highlighted,omitempty"`
}

// D renders the path as SVG path data: "M x y L x y ...".
func (p Path) D() string {
	var b strings.Builder
	for i, pt := range p.Points {
		if i == 0 {
			fmt.Fprintf(&b, "M %d %d", pt.X, pt.Y)
			continue
		}
		fmt.Fprintf(&b, " L %d %d", pt.X, pt.Y)
	}
	return b.String()
}

// RouteOptions configures a Router.
type RouteOptions struct {
	Theme        Theme
	ElbowOffset  int
	DetourOffset int
	LaneStep     int

	// Hovered marks one edge as highlighted. It is presentation state owned
	// by the caller.
	Hovered *EdgeKey

	// Log receives debug traces for dropped edges and detours. May be nil.
	Log logrus.FieldLogger
}

// DefaultRouteOptions returns the stock geometry with DefaultTheme.
func DefaultRouteOptions() RouteOptions {
	return RouteOptions{
		Theme:        DefaultTheme(),
		ElbowOffset:  DefaultElbowOffset,
		DetourOffset: DefaultDetourOffset,
		LaneStep:     DefaultLaneStep,
	}
}

// Router turns dependency edges into orthogonal connectors between bars.
type Router struct {
	opts RouteOptions
}

// NewRouter creates a Router. Zero geometry fields fall back to defaults.
func NewRouter(opts RouteOptions) *Router {
	if opts.ElbowOffset <= 0 {
		opts.ElbowOffset = DefaultElbowOffset
	}
	if opts.DetourOffset <= 0 {
		opts.DetourOffset = DefaultDetourOffset
	}
	if opts.LaneStep < 0 {
		opts.LaneStep = 0
	}
	return &Router{opts: opts}
}

func (r *Router) debugf(format string, args ...interface{}) {
	if r.opts.Log != nil {
		r.opts.Log.Debugf(format, args...)
	}
}

// Route resolves every edge against bars and synthesizes its connector.
// Edges whose endpoints have no bar, or whose type is unknown, are dropped.
// Parallel and duplicate edges each get their own path.
func (r *Router) Route(deps []Dependency, bars []Bar) []Path {
	idx := IndexBars(bars)
	lanes := make(map[[2]int]int)
	paths := make([]Path, 0, len(deps))

	for _, dep := range deps {
		if !dep.Type.Valid() {
			r.debugf("dropping dependency %s->%s: unknown type %q", dep.PredecessorID, dep.SuccessorID, dep.Type)
			continue
		}
		pred, ok := idx[dep.PredecessorID]
		if !ok {
			r.debugf("dropping dependency %s->%s: predecessor has no bar", dep.PredecessorID, dep.SuccessorID)
			continue
		}
		succ, ok := idx[dep.SuccessorID]
		if !ok {
			r.debugf("dropping dependency %s->%s: successor has no bar", dep.PredecessorID, dep.SuccessorID)
			continue
		}

		from, to := anchors(dep.Type, pred, succ)
		p := Path{
			PredecessorID:       dep.PredecessorID,
			SuccessorID:         dep.SuccessorID,
			Type:                dep.Type,
			LagDays:             dep.LagDays,
			Color:               r.opts.Theme.DependencyColor(dep),
			Stroke:              r.opts.Theme.Stroke(dep.Type),
			HasConflict:         dep.HasConflict,
			ConflictDescription: dep.ConflictDescription,
		}

		if r.needsDetour(dep.Type, from, to) {
			key := rowPair(pred.Row, succ.Row)
			p.Detour = true
			p.Lane = lanes[key]
			lanes[key]++
			p.Points = r.detour(dep.Type, from, to, r.laneShift(p.Lane, pred.RowHeight))
			r.debugf("dependency %s->%s (%s) detours on lane %d", dep.PredecessorID, dep.SuccessorID, dep.Type, p.Lane)
		} else {
			p.Points = r.step(dep.Type, from, to)
		}

		p.Arrow = arrowFor(p.Points)
		if dep.HasConflict {
			p.Marker = &ConflictMarker{
				Center: Point{X: from.X + conflictMarkerDX, Y: from.Y + conflictMarkerDY},
				Radius: conflictMarkerRadius,
				Glyph:  conflictGlyph,
			}
		}
		if h := r.opts.Hovered; h != nil && *h == dep.Key() {
			p.Highlighted = true
			p.Stroke.Width++
		}
		paths = append(paths, p)
	}
	return paths
}

// anchors picks the source and target points on the two bars for a relation.
func anchors(t DependencyType, pred, succ Bar) (Point, Point) {
	from := Point{Y: pred.CenterY()}
	to := Point{Y: succ.CenterY()}
	switch t {
	case FinishToStart:
		from.X, to.X = pred.Right(), succ.Left
	case StartToStart:
		from.X, to.X = pred.Left, succ.Left
	case FinishToFinish:
		from.X, to.X = pred.Right(), succ.Right()
	case StartToFinish:
		from.X, to.X = pred.Left, succ.Right()
	}
	return from, to
}

// needsDetour reports whether the target lies behind the source, so that a
// simple step would have to run backwards. Only FS and SF can detour.
func (r *Router) needsDetour(t DependencyType, from, to Point) bool {
	switch t {
	case FinishToStart, StartToFinish:
		return to.X < from.X
	}
	return false
}

// step builds the three-segment elbow used when no detour is needed. An FS
// target closer than the elbow offset turns halfway between the anchors so
// the route never moves left.
func (r *Router) step(t DependencyType, from, to Point) []Point {
	o := r.opts.ElbowOffset
	var x int
	switch t {
	case FinishToStart:
		x = from.X + o
		if to.X-from.X <= o {
			x = from.X + (to.X-from.X)/2
		}
	case StartToFinish:
		x = from.X - o
	case StartToStart:
		x = min(from.X, to.X) - o
	case FinishToFinish:
		x = max(from.X, to.X) + o
	}
	return []Point{from, {X: x, Y: from.Y}, {X: x, Y: to.Y}, to}
}

// detour builds the five-segment route that leaves the source on its own
// side, runs horizontally between the rows and enters the target from its
// own side.
func (r *Router) detour(t DependencyType, from, to Point, shift int) []Point {
	o := r.opts.ElbowOffset
	midY := from.Y - r.opts.DetourOffset
	if from.Y < to.Y {
		midY = from.Y + r.opts.DetourOffset
	}
	midY += shift

	exitX, entryX := from.X+o, to.X-o
	if t == StartToFinish {
		exitX, entryX = from.X-o, to.X+o
	}
	return []Point{
		from,
		{X: exitX, Y: from.Y},
		{X: exitX, Y: midY},
		{X: entryX, Y: midY},
		{X: entryX, Y: to.Y},
		to,
	}
}

// laneShift spreads detours sharing a row pair around the base line:
// 0, +step, -step, +2*step, ... wrapping before the shift reaches the
// neighbouring row center.
func (r *Router) laneShift(lane, rowHeight int) int {
	step := r.opts.LaneStep
	if step <= 0 || lane == 0 {
		return 0
	}
	maxSteps := (rowHeight/2 - step) / step
	if maxSteps <= 0 {
		return 0
	}
	lane %= 2*maxSteps + 1
	n := (lane + 1) / 2
	if lane%2 == 1 {
		return n * step
	}
	return -n * step
}

func rowPair(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// arrowFor orients the arrowhead along the last segment that has length.
func arrowFor(pts []Point) Arrow {
	if len(pts) == 0 {
		return Arrow{Direction: Right}
	}
	tip := pts[len(pts)-1]
	for i := len(pts) - 1; i > 0; i-- {
		a, b := pts[i-1], pts[i]
		switch {
		case b.X > a.X:
			return Arrow{Tip: tip, Direction: Right}
		case b.X < a.X:
			return Arrow{Tip: tip, Direction: Left}
		case b.Y > a.Y:
			return Arrow{Tip: tip, Direction: Down}
		case b.Y < a.Y:
			return Arrow{Tip: tip, Direction: Up}
		}
	}
	return Arrow{Tip: tip, Direction: Right}
}
