// Package graph defines the scene graph produced by evaluating scene source.
// The graph is a DAG of primitives, transforms, Boolean operations, clips
// and objects. It describes a scene independently of any geometry kernel;
// package assemble turns it into solids.
package graph
