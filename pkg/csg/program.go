package csg

import (
	"iter"
	"math"

	"github.com/chazu/csgray/pkg/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// instr is one step of a compiled tree: either evaluate a leaf solid or
// combine the top two stack entries.
type instr struct {
	solid geom.Solid // nil for combine steps
	op    Op
}

// Program is a CSG tree flattened into postorder. Evaluating it uses an
// explicit stack instead of recursion, so arbitrarily deep trees are safe.
// A Program is immutable and may be shared between goroutines.
type Program struct {
	root geom.Solid
	code []instr
}

type frame struct {
	node     geom.Solid
	expanded bool
}

// Compile flattens the Operation nodes of root. Leaves and any other solid
// become single evaluation steps.
func Compile(root geom.Solid) *Program {
	if p, ok := root.(*Program); ok {
		return p
	}
	p := &Program{root: root}
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		op, ok := f.node.(*Operation)
		switch {
		case !ok:
			p.code = append(p.code, instr{solid: f.node})
		case f.expanded:
			p.code = append(p.code, instr{op: op.op})
		default:
			stack = append(stack,
				frame{node: op, expanded: true},
				frame{node: op.right},
				frame{node: op.left},
			)
		}
	}
	return p
}

// Root returns the tree the program was compiled from.
func (p *Program) Root() geom.Solid { return p.root }

// Len returns the number of instructions.
func (p *Program) Len() int { return len(p.code) }

type slot struct {
	hits   []geom.Hit
	inside bool
}

// Raycast evaluates the program on r. The result is identical to the
// recursive evaluation of the root.
func (p *Program) Raycast(r geom.Ray) iter.Seq[geom.Hit] {
	return func(yield func(geom.Hit) bool) {
		for _, h := range p.eval(r) {
			if !yield(h) {
				return
			}
		}
	}
}

func (p *Program) eval(r geom.Ray) []geom.Hit {
	classify := !math.IsInf(r.MinT, -1)
	start := r.At(r.MinT)

	stack := make([]slot, 0, 8)
	for _, in := range p.code {
		if in.solid != nil {
			s := slot{hits: geom.Collect(in.solid.Raycast(r))}
			if classify {
				s.inside = in.solid.Contains(start)
			}
			stack = append(stack, s)
			continue
		}
		n := len(stack)
		l, rt := stack[n-2], stack[n-1]
		stack = append(stack[:n-2], slot{
			hits:   Merge(in.op, l.hits, rt.hits, l.inside, rt.inside),
			inside: Combine(in.op, l.inside, rt.inside),
		})
	}
	if len(stack) != 1 {
		panic("csg: malformed program")
	}
	return stack[0].hits
}

// Contains classifies p without recursion.
func (p *Program) Contains(pt mgl64.Vec3) bool {
	stack := make([]bool, 0, 8)
	for _, in := range p.code {
		if in.solid != nil {
			stack = append(stack, in.solid.Contains(pt))
			continue
		}
		n := len(stack)
		stack = append(stack[:n-2], Combine(in.op, stack[n-2], stack[n-1]))
	}
	return stack[0]
}

// Depth returns the height of the tree rooted at s; a lone leaf has depth 1.
func Depth(s geom.Solid) int {
	type item struct {
		node  geom.Solid
		level int
	}
	maxDepth := 0
	stack := []item{{s, 1}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		maxDepth = max(maxDepth, it.level)
		if op, ok := it.node.(*Operation); ok {
			stack = append(stack, item{op.left, it.level + 1}, item{op.right, it.level + 1})
		}
	}
	return maxDepth
}

// LeafCount returns the number of non-operation nodes under s.
func LeafCount(s geom.Solid) int {
	n := 0
	for _, in := range Compile(s).code {
		if in.solid != nil {
			n++
		}
	}
	return n
}
