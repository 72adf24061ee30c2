package gobridge

// position of a type within the type being classified
type nesting int

const (
	atTop      nesting = iota // parameter or return type
	inFallible                // directly inside Fallible
	inNested                  // inside Optional, List or Map
)

var primitives = map[string]Kind{
	ShapeInt32:   Int32,
	ShapeInt64:   Int64,
	ShapeBool:    Bool,
	ShapeFloat32: Float32,
	ShapeFloat64: Float64,
	ShapeInt16:   Int16,
	ShapeUint16:  Char16,
	ShapeInt8:    Int8,
}

// Classify maps a declared type to its BridgeType. attrs are the
// attributes attached to the parameter or return the type belongs to;
// class_name overrides the host class of object references and
// callbacks.
func Classify(t *TypeExpr, attrs Attrs) (*BridgeType, error) {
	return classify(t, attrs, atTop)
}

func classify(t *TypeExpr, attrs Attrs, ctx nesting) (*BridgeType, error) {
	if t.Ref && t.Mutable && t.Name != ShapeEnv {
		return nil, errorf(t.Pos, "mutable references are only supported for the runtime context, got '%s'", t)
	}

	if k, ok := primitives[t.Name]; ok {
		return &BridgeType{Kind: k}, nil
	}

	switch t.Name {
	case ShapeString:
		return &BridgeType{Kind: Text}, nil

	case ShapeEnv:
		if !t.Ref {
			return nil, errorf(t.Pos, "the runtime context must be passed by reference")
		}
		if ctx != atTop {
			return nil, errorf(t.Pos, "the runtime context cannot be nested in '%s'", t)
		}
		return &BridgeType{Kind: RuntimeContext, Mutable: t.Mutable}, nil

	case ShapeSelf:
		if ctx == inNested {
			return nil, errorf(t.Pos, "the receiver type cannot be nested")
		}
		return &BridgeType{Kind: ReceiverHandle}, nil

	case ShapeUnit:
		if ctx == inNested {
			return nil, errorf(t.Pos, "unit cannot be nested")
		}
		return &BridgeType{Kind: Unit}, nil

	case ShapeObject:
		return &BridgeType{Kind: OpaqueHandle}, nil

	case ShapeFallible:
		if err := arity(t, 1); err != nil {
			return nil, err
		}
		if ctx != atTop || t.Args[0].Name == ShapeFallible {
			return nil, errorf(t.Pos, "nested error results are not supported")
		}
		inner, err := classify(t.Args[0], attrs, inFallible)
		if err != nil {
			return nil, err
		}
		return &BridgeType{Kind: Fallible, Inner: inner}, nil

	case ShapeOptional:
		return classifyOptional(t, attrs)

	case ShapeList:
		if err := arity(t, 1); err != nil {
			return nil, err
		}
		elem, err := classify(t.Args[0], attrs, inNested)
		if err != nil {
			return nil, err
		}
		return &BridgeType{Kind: List, Inner: elem}, nil

	case ShapeMap:
		if err := arity(t, 2); err != nil {
			return nil, err
		}
		key, err := classify(t.Args[0], attrs, inNested)
		if err != nil {
			return nil, err
		}
		switch {
		case key.Kind.IsPrimitive(), key.Kind == Text, key.Kind == OpaqueHandle, key.Kind == ObjectRef:
		default:
			return nil, errorf(t.Args[0].Pos, "unsupported map key type '%s'", t.Args[0])
		}
		val, err := classify(t.Args[1], attrs, inNested)
		if err != nil {
			return nil, err
		}
		return &BridgeType{Kind: Map, Key: key, Inner: val}, nil

	case ShapeDyn:
		return classifyDyn(t, attrs, ctx)
	}

	if t.Ref && t.Path != "" {
		host := attrs.ClassName()
		if host == "" {
			host = t.Host
		}
		if host == "" {
			return nil, errorf(t.Pos, "cannot determine the host class of '%s'; add a class_name attribute", t.Identity())
		}
		return &BridgeType{
			Kind:   ObjectRef,
			Target: t.Identity(),
			Host:   host,
			GoPath: t.Path,
			GoName: t.Name,
		}, nil
	}

	return nil, errorf(t.Pos, "unsupported type '%s'", t)
}

func classifyOptional(t *TypeExpr, attrs Attrs) (*BridgeType, error) {
	if err := arity(t, 1); err != nil {
		return nil, err
	}
	if t.Args[0].Name == ShapeOptional {
		return nil, errorf(t.Pos, "nested optionals are not supported")
	}
	inner, err := classify(t.Args[0], attrs, inNested)
	if err != nil {
		return nil, err
	}
	switch {
	case inner.Kind.IsPrimitive(), inner.Kind == Text:
	case inner.Kind == ObjectRef, inner.Kind == List, inner.Kind == Map:
		if t.Pointer {
			return nil, errorf(t.Pos, "pointer optionals only hold primitives and strings; use jnirt.Optional[%s]", t.Args[0])
		}
	default:
		return nil, errorf(t.Pos, "unsupported optional type '%s'", t.Args[0])
	}
	return &BridgeType{Kind: Optional, Inner: inner, Pointer: t.Pointer}, nil
}

func classifyDyn(t *TypeExpr, attrs Attrs, ctx nesting) (*BridgeType, error) {
	if ctx != atTop {
		return nil, errorf(t.Pos, "callbacks cannot be nested")
	}
	className := attrs.ClassName()
	if t.Anonymous || len(t.Args) == 0 {
		if className == "" {
			return nil, errorf(t.Pos, "cannot derive the interface name of '%s'; add a class_name attribute", t)
		}
		simple := simpleName(className)
		return &BridgeType{
			Kind:   Callback,
			Target: joinIdentity(t.Path, simple),
			Host:   className,
			GoPath: t.Path,
			GoName: simple,
		}, nil
	}
	trait := t.Args[0]
	host := className
	if host == "" {
		host = trait.Host
	}
	if host == "" {
		return nil, errorf(t.Pos, "cannot determine the host interface of '%s'; add a class_name attribute", trait.Identity())
	}
	return &BridgeType{
		Kind:   Callback,
		Target: trait.Identity(),
		Host:   host,
		GoPath: trait.Path,
		GoName: trait.Name,
	}, nil
}

func arity(t *TypeExpr, n int) error {
	if len(t.Args) != n {
		return errorf(t.Pos, "'%s' takes %d type argument(s), got %d", t.Name, n, len(t.Args))
	}
	return nil
}

func joinIdentity(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
