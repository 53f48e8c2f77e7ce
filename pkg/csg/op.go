// Package csg evaluates Boolean combinations of solids. Every node, leaf or
// operation, satisfies geom.Solid, so trees compose to any depth and plug
// into anything that consumes a geom.Geometry.
//
// An operation node raycasts both children against the same ray and merges
// the two ordered hit lists with a parity sweep: each crossing of an
// operand's surface flips that operand's inside state, and a crossing is
// kept only when it changes membership of the combined solid.
package csg

import (
	"fmt"
	"strings"
)

// Op is a Boolean set operation.
type Op int

const (
	OpUnion Op = iota
	OpIntersection
	OpDifference // Left minus Right
)

func (o Op) String() string {
	switch o {
	case OpUnion:
		return "union"
	case OpIntersection:
		return "intersection"
	case OpDifference:
		return "difference"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Valid reports whether o is one of the defined operations.
func (o Op) Valid() bool {
	return o == OpUnion || o == OpIntersection || o == OpDifference
}

// ParseOp converts an operation name to an Op.
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(s) {
	case "union":
		return OpUnion, nil
	case "intersection", "intersect":
		return OpIntersection, nil
	case "difference", "subtract":
		return OpDifference, nil
	}
	return 0, fmt.Errorf("csg: unknown operation %q", s)
}

func unknownOp(op Op) string {
	return fmt.Sprintf("csg: unknown operation %d", int(op))
}

// Combine reports membership in the combined solid given membership in
// each operand. It panics on an unknown op.
func Combine(op Op, inLeft, inRight bool) bool {
	switch op {
	case OpUnion:
		return inLeft || inRight
	case OpIntersection:
		return inLeft && inRight
	case OpDifference:
		return inLeft && !inRight
	}
	panic(unknownOp(op))
}

// Select reports whether crossing one operand's surface also crosses the
// surface of the combined solid. insideLeft and insideRight are the states
// before the crossing; isLeft names the operand being crossed.
//
//	union:        keep iff the other operand is outside
//	intersection: keep iff the other operand is inside
//	difference:   Left crossings iff outside Right,
//	              Right crossings iff inside Left
//
// It panics on an unknown op.
func Select(op Op, insideLeft, insideRight, isLeft bool) bool {
	switch op {
	case OpUnion:
		if isLeft {
			return !insideRight
		}
		return !insideLeft
	case OpIntersection:
		if isLeft {
			return insideRight
		}
		return insideLeft
	case OpDifference:
		if isLeft {
			return !insideRight
		}
		return insideLeft
	}
	panic(unknownOp(op))
}
