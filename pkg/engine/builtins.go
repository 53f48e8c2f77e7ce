package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chazu/csgray/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a graph.NodeID so solids can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	kind string
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(%s %q)", n.kind, n.name)
	}
	return fmt.Sprintf("(%s %s)", n.kind, n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a graph.Vec3.
type sexpVec3 struct {
	vec graph.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// only rejects keywords outside allowed.
func (pa kwArgs) only(allowed ...string) error {
	var unknown []string
	for k := range pa.kw {
		found := false
		for _, a := range allowed {
			if k == a {
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, ":"+k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("unknown keyword %s", strings.Join(unknown, " "))
}

// float stores the keyword value in dst when present.
func (pa kwArgs) float(key string, dst *float64) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

// vec3 stores the keyword value in dst when present.
func (pa kwArgs) vec3(key string, dst *graph.Vec3) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	vec, err := toVec3(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = vec
	return nil
}

// str stores a string or keyword value in dst when present.
func (pa kwArgs) str(key string, dst *string) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	s, err := toKeywordString(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = s
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_xy) and plain strings ("xy").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toNodeRef extracts a NodeID from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (graph.NodeID, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	return graph.ZeroID, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3. A bare number n is read as
// (vec3 n n n).
func toVec3(s zygo.Sexp) (graph.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	if f, err := toFloat64(s); err == nil {
		return graph.Vec3{X: f, Y: f, Z: f}, nil
	}
	return graph.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Node construction
// ---------------------------------------------------------------------------

// builder adds nodes to the graph under construction. Anonymous nodes are
// numbered per evaluation so identical source yields identical IDs.
type builder struct {
	g    *graph.SceneGraph
	anon int
}

func (b *builder) add(kind graph.NodeKind, fn, name string, children []graph.NodeID, data graph.NodeData) (zygo.Sexp, error) {
	path := fn + "/" + name
	if name == "" {
		b.anon++
		path = fmt.Sprintf("%s/_anon_%d", fn, b.anon)
	} else if b.g.Lookup(name) != nil {
		return zygo.SexpNull, fmt.Errorf("%s: name %q is already defined", fn, name)
	}

	id := graph.NewNodeID(path)
	b.g.AddNode(&graph.Node{
		ID:       id,
		Kind:     kind,
		Name:     name,
		Children: children,
		Data:     data,
	})
	return &sexpNodeRef{id: id, kind: fn, name: name}, nil
}

// primitive parses keyword arguments for a primitive builtin. parse fills
// the payload from the parsed arguments; :name is handled here.
func (b *builder) primitive(fn string, keys []string, args []zygo.Sexp, parse func(pa kwArgs) (graph.NodeData, error)) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if err := pa.only(append(keys, "name")...); err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	if len(pa.positional) > 0 {
		return zygo.SexpNull, fmt.Errorf("%s: takes keyword arguments only", fn)
	}
	var name string
	if err := pa.str("name", &name); err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	data, err := parse(pa)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	return b.add(graph.NodePrimitive, fn, name, nil, data)
}

// boolean folds operands left to right: (difference a b c) is (a - b) - c.
func (b *builder) boolean(fn string, op graph.BoolOp, args []zygo.Sexp) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if err := pa.only("name"); err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	var name string
	if err := pa.str("name", &name); err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	if len(pa.positional) == 0 {
		return zygo.SexpNull, fmt.Errorf("%s requires at least one solid", fn)
	}

	acc, err := toNodeRef(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: operand 1: %w", fn, err)
	}
	if len(pa.positional) == 1 {
		return pa.positional[0], nil
	}

	var out zygo.Sexp
	for i := 1; i < len(pa.positional); i++ {
		next, err := toNodeRef(pa.positional[i])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", fn, i+1, err)
		}
		// Only the outermost node of the fold carries the user's name.
		nodeName := ""
		if i == len(pa.positional)-1 {
			nodeName = name
		}
		out, err = b.add(graph.NodeBoolean, fn, nodeName, []graph.NodeID{acc, next}, graph.BooleanData{Op: op})
		if err != nil {
			return zygo.SexpNull, err
		}
		acc = out.(*sexpNodeRef).id
	}
	return out, nil
}

// transform handles (translate solid v), (rotate solid v) and (scale solid v).
func (b *builder) transform(fn string, args []zygo.Sexp, set func(td *graph.TransformData, v graph.Vec3)) (zygo.Sexp, error) {
	pa := parseArgs(args)
	if err := pa.only("name"); err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	if len(pa.positional) != 2 {
		return zygo.SexpNull, fmt.Errorf("%s requires a solid and a vector, got %d arguments", fn, len(pa.positional))
	}
	child, err := toNodeRef(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	v, err := toVec3(pa.positional[1])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	var name string
	if err := pa.str("name", &name); err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}

	var td graph.TransformData
	set(&td, v)
	return b.add(graph.NodeTransform, fn, name, []graph.NodeID{child}, td)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene DSL builtins into a zygomys environment.
// The builtins populate g during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, g *graph.SceneGraph) {
	b := &builder{g: g}

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: graph.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// (ref "name") looks up a named solid.
	env.AddFunction("ref", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("ref requires a name argument")
		}
		refName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("ref: name: %w", err)
		}
		n := g.Lookup(refName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("ref: no solid named %q", refName)
		}
		return &sexpNodeRef{id: n.ID, kind: "ref", name: refName}, nil
	})

	// -----------------------------------------------------------------------
	// Primitives
	// -----------------------------------------------------------------------

	// (sphere :center (vec3 0 0 0) :radius 1)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return b.primitive("sphere", []string{"center", "radius"}, args, func(pa kwArgs) (graph.NodeData, error) {
			d := graph.SphereData{Radius: 1}
			if err := pa.vec3("center", &d.Center); err != nil {
				return nil, err
			}
			if err := pa.float("radius", &d.Radius); err != nil {
				return nil, err
			}
			return d, nil
		})
	})

	// (ellipsoid :center (vec3 0 0 0) :radii (vec3 2 1 1))
	env.AddFunction("ellipsoid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return b.primitive("ellipsoid", []string{"center", "radii"}, args, func(pa kwArgs) (graph.NodeData, error) {
			d := graph.EllipsoidData{Radii: graph.Vec3{X: 1, Y: 1, Z: 1}}
			if err := pa.vec3("center", &d.Center); err != nil {
				return nil, err
			}
			if err := pa.vec3("radii", &d.Radii); err != nil {
				return nil, err
			}
			return d, nil
		})
	})

	// (quadric :q (list 1 0 0 0 1 0 0 0 -1) :center (vec3 0 0 0) :r -1)
	env.AddFunction("quadric", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return b.primitive("quadric", []string{"q", "center", "r"}, args, func(pa kwArgs) (graph.NodeData, error) {
			var d graph.QuadricData
			v, ok := pa.kw["q"]
			if !ok {
				return nil, fmt.Errorf(":q is required")
			}
			items, err := sexpListToSlice(v)
			if err != nil {
				return nil, fmt.Errorf("q: %w", err)
			}
			if len(items) != 9 {
				return nil, fmt.Errorf("q: expected 9 coefficients, got %d", len(items))
			}
			for i, item := range items {
				if d.Q[i], err = toFloat64(item); err != nil {
					return nil, fmt.Errorf("q[%d]: %w", i, err)
				}
			}
			if err := pa.vec3("center", &d.Center); err != nil {
				return nil, err
			}
			if err := pa.float("r", &d.R); err != nil {
				return nil, err
			}
			return d, nil
		})
	})

	// (box :lower (vec3 -1 -1 -1) :upper (vec3 1 1 1))
	// (box :center (vec3 0 0 0) :size (vec3 2 2 2))
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return b.primitive("box", []string{"lower", "upper", "center", "size"}, args, func(pa kwArgs) (graph.NodeData, error) {
			return boxCorners(pa)
		})
	})

	// (plane :point (vec3 0 0 0) :normal (vec3 0 1 0))
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return b.primitive("plane", []string{"point", "normal"}, args, func(pa kwArgs) (graph.NodeData, error) {
			d := graph.PlaneData{Normal: graph.Vec3{Y: 1}}
			if err := pa.vec3("point", &d.Point); err != nil {
				return nil, err
			}
			if err := pa.vec3("normal", &d.Normal); err != nil {
				return nil, err
			}
			return d, nil
		})
	})

	// (cylinder :axes :xy :center (vec3 0 0 0) :radius 1 :length 4)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return b.primitive("cylinder", []string{"axes", "center", "radius", "length"}, args, func(pa kwArgs) (graph.NodeData, error) {
			d := graph.CylinderData{Axes: "xy", Radius: 1}
			if err := pa.str("axes", &d.Axes); err != nil {
				return nil, err
			}
			if err := pa.vec3("center", &d.Center); err != nil {
				return nil, err
			}
			if err := pa.float("radius", &d.Radius); err != nil {
				return nil, err
			}
			if err := pa.float("length", &d.Length); err != nil {
				return nil, err
			}
			return d, nil
		})
	})

	// (pipe :axes :yz :center (vec3 0 0 0) :radius 1 :thickness 0.1 :length 4)
	env.AddFunction("pipe", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return b.primitive("pipe", []string{"axes", "center", "radius", "thickness", "length"}, args, func(pa kwArgs) (graph.NodeData, error) {
			d := graph.PipeData{Axes: "xy", Radius: 1, Thickness: 0.1}
			if err := pa.str("axes", &d.Axes); err != nil {
				return nil, err
			}
			if err := pa.vec3("center", &d.Center); err != nil {
				return nil, err
			}
			if err := pa.float("radius", &d.Radius); err != nil {
				return nil, err
			}
			if err := pa.float("thickness", &d.Thickness); err != nil {
				return nil, err
			}
			if err := pa.float("length", &d.Length); err != nil {
				return nil, err
			}
			return d, nil
		})
	})

	// -----------------------------------------------------------------------
	// Booleans: (union a b ...), (intersection a b ...), (difference a b ...)
	// -----------------------------------------------------------------------
	for fn, op := range map[string]graph.BoolOp{
		"union":        graph.BoolUnion,
		"intersection": graph.BoolIntersection,
		"difference":   graph.BoolDifference,
	} {
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			return b.boolean(fn, op, args)
		})
	}

	// -----------------------------------------------------------------------
	// Transforms
	// -----------------------------------------------------------------------

	// (translate solid (vec3 1 0 0))
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return b.transform("translate", args, func(td *graph.TransformData, v graph.Vec3) { td.Translation = &v })
	})

	// (rotate solid (vec3 0 90 0)), Euler degrees
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return b.transform("rotate", args, func(td *graph.TransformData, v graph.Vec3) { td.Rotation = &v })
	})

	// (scale solid 2) or (scale solid (vec3 1 2 1))
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return b.transform("scale", args, func(td *graph.TransformData, v graph.Vec3) { td.Scale = &v })
	})

	// (clip solid :lower (vec3 ...) :upper (vec3 ...))
	env.AddFunction("clip", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("lower", "upper", "center", "size", "name"); err != nil {
			return zygo.SexpNull, fmt.Errorf("clip: %w", err)
		}
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("clip requires exactly one solid")
		}
		child, err := toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clip: %w", err)
		}
		box, err := boxCorners(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("clip: %w", err)
		}
		var clipName string
		if err := pa.str("name", &clipName); err != nil {
			return zygo.SexpNull, fmt.Errorf("clip: %w", err)
		}
		return b.add(graph.NodeClip, "clip", clipName, []graph.NodeID{child},
			graph.ClipData{Lower: box.Lower, Upper: box.Upper})
	})

	// -----------------------------------------------------------------------
	// (object "name" solid :color "#rrggbb")
	// -----------------------------------------------------------------------
	env.AddFunction("object", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("color"); err != nil {
			return zygo.SexpNull, fmt.Errorf("object: %w", err)
		}
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("object requires a name and a solid")
		}
		objName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("object: name: %w", err)
		}
		child, err := toNodeRef(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("object: %w", err)
		}
		var od graph.ObjectData
		if err := pa.str("color", &od.Color); err != nil {
			return zygo.SexpNull, fmt.Errorf("object: %w", err)
		}

		ref, err := b.add(graph.NodeObject, "object", objName, []graph.NodeID{child}, od)
		if err != nil {
			return zygo.SexpNull, err
		}
		g.AddRoot(ref.(*sexpNodeRef).id)
		return ref, nil
	})

	// -----------------------------------------------------------------------
	// Scene settings
	// -----------------------------------------------------------------------

	// (camera :eye (vec3 0 2 8) :target (vec3 0 0 0) :up (vec3 0 1 0) :fov 45)
	env.AddFunction("camera", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("eye", "target", "up", "fov"); err != nil {
			return zygo.SexpNull, fmt.Errorf("camera: %w", err)
		}
		cam := g.Settings.Camera
		for key, dst := range map[string]*graph.Vec3{"eye": &cam.Eye, "target": &cam.Target, "up": &cam.Up} {
			if err := pa.vec3(key, dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("camera: %w", err)
			}
		}
		if err := pa.float("fov", &cam.FOV); err != nil {
			return zygo.SexpNull, fmt.Errorf("camera: %w", err)
		}
		if !(cam.FOV > 0 && cam.FOV < 180) {
			return zygo.SexpNull, fmt.Errorf("camera: fov %g must be between 0 and 180 degrees", cam.FOV)
		}
		if cam.Eye == cam.Target {
			return zygo.SexpNull, fmt.Errorf("camera: eye and target coincide")
		}
		g.Settings.Camera = cam
		return zygo.SexpNull, nil
	})

	// (background "#202028")
	env.AddFunction("background", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("background requires one color argument")
		}
		c, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("background: %w", err)
		}
		if _, err := graph.ParseColor(c); err != nil {
			return zygo.SexpNull, fmt.Errorf("background: %w", err)
		}
		g.Settings.Background = c
		return zygo.SexpNull, nil
	})
}

// boxCorners reads either :lower/:upper or :center/:size.
func boxCorners(pa kwArgs) (graph.BoxData, error) {
	_, hasSize := pa.kw["size"]
	_, hasLower := pa.kw["lower"]
	_, hasUpper := pa.kw["upper"]
	if hasSize && (hasLower || hasUpper) {
		return graph.BoxData{}, fmt.Errorf(":size cannot be combined with :lower or :upper")
	}

	if hasSize {
		var center, size graph.Vec3
		if err := pa.vec3("center", &center); err != nil {
			return graph.BoxData{}, err
		}
		if err := pa.vec3("size", &size); err != nil {
			return graph.BoxData{}, err
		}
		half := graph.Vec3{X: size.X / 2, Y: size.Y / 2, Z: size.Z / 2}
		return graph.BoxData{
			Lower: graph.Vec3{X: center.X - half.X, Y: center.Y - half.Y, Z: center.Z - half.Z},
			Upper: center.Add(half),
		}, nil
	}

	if _, ok := pa.kw["center"]; ok {
		return graph.BoxData{}, fmt.Errorf(":center requires :size")
	}
	d := graph.BoxData{
		Lower: graph.Vec3{X: -1, Y: -1, Z: -1},
		Upper: graph.Vec3{X: 1, Y: 1, Z: 1},
	}
	if err := pa.vec3("lower", &d.Lower); err != nil {
		return graph.BoxData{}, err
	}
	if err := pa.vec3("upper", &d.Upper); err != nil {
		return graph.BoxData{}, err
	}
	return d, nil
}
