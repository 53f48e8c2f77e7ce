package csg

import (
	"math"

	"github.com/chazu/csgray/pkg/geom"
)

// Merge combines the ordered hit lists of two operands into the ordered hit
// list of op(left, right). insideLeft and insideRight give each operand's
// state at the start of the ray; both are false for rays that begin outside
// every solid.
//
// Hits are swept in ascending T with Left hits ahead of Right hits on equal
// T. Crossings within geom.TieEpsilon of each other form one group; a lone
// crossing is kept according to Select, and a group keeps its first hit
// only if membership of the combined solid differs across it. Coincident
// surfaces therefore cancel instead of leaving zero-width slivers.
func Merge(op Op, left, right []geom.Hit, insideLeft, insideRight bool) []geom.Hit {
	if !op.Valid() {
		panic(unknownOp(op))
	}

	out := make([]geom.Hit, 0, len(left)+len(right))
	s := sweep{left: left, right: right}

	for s.more() {
		h, isLeft := s.pop()
		first := h

		if !s.more() || math.Abs(s.peekT()-first.T) > geom.TieEpsilon {
			if Select(op, insideLeft, insideRight, isLeft) {
				out = append(out, first)
			}
			if isLeft {
				insideLeft = !insideLeft
			} else {
				insideRight = !insideRight
			}
			continue
		}

		before := Combine(op, insideLeft, insideRight)
		for {
			if isLeft {
				insideLeft = !insideLeft
			} else {
				insideRight = !insideRight
			}
			if !s.more() || math.Abs(s.peekT()-first.T) > geom.TieEpsilon {
				break
			}
			_, isLeft = s.pop()
		}
		if Combine(op, insideLeft, insideRight) != before {
			out = append(out, first)
		}
	}
	return out
}

// sweep walks two sorted hit lists in merged order.
type sweep struct {
	left, right []geom.Hit
	i, j        int
}

func (s *sweep) more() bool {
	return s.i < len(s.left) || s.j < len(s.right)
}

func (s *sweep) leftNext() bool {
	if s.i >= len(s.left) {
		return false
	}
	return s.j >= len(s.right) || s.left[s.i].T <= s.right[s.j].T
}

func (s *sweep) peekT() float64 {
	if s.leftNext() {
		return s.left[s.i].T
	}
	return s.right[s.j].T
}

func (s *sweep) pop() (geom.Hit, bool) {
	if s.leftNext() {
		s.i++
		return s.left[s.i-1], true
	}
	s.j++
	return s.right[s.j-1], false
}
