package gobridge

import (
	"go/token"
	"strings"
)

// ParamDecl is a parameter as declared.
type ParamDecl struct {
	Name  string
	Type  *TypeExpr
	Attrs Attrs
}

// ReceiverDecl is a method receiver as declared.
type ReceiverDecl struct {
	Mutable bool
}

// Signature is a method or function as declared, before classification.
type Signature struct {
	Name     string
	Receiver *ReceiverDecl // nil for static functions
	Params   []ParamDecl
	Result   *TypeExpr // nil when nothing is returned
	Attrs    Attrs

	Constructor bool
	Trait       bool // a method of a callback interface

	Doc string
	Pos token.Position
}

// Param is a classified parameter. The receiver of an instance method is
// modelled as a parameter too.
type Param struct {
	Name     string
	HostName string
	Type     *BridgeType
	Receiver bool
}

// IsReceiver reports whether p is the method receiver.
func (p *Param) IsReceiver() bool { return p.Receiver }

// IsRuntimeContext reports whether p receives the runtime context, which
// the bridge supplies and the host never sees.
func (p *Param) IsRuntimeContext() bool {
	return !p.Receiver && p.Type.Kind == RuntimeContext
}

// IsErrorChannel reports whether p carries an error result.
func (p *Param) IsErrorChannel() bool {
	return !p.Receiver && p.Type.Kind == Fallible
}

// Method is a classified method, static function or constructor.
type Method struct {
	GoName   string
	HostName string
	Params   []*Param
	Result   *BridgeType // nil when nothing is returned

	Static      bool
	MutSelf     bool
	Constructor bool
	Trait       bool

	Doc []string
	Pos token.Position
}

// NewMethod classifies a signature and checks the rules that span more
// than one type.
func NewMethod(sig Signature) (*Method, error) {
	name := sig.Attrs.Rename()
	if name == "" {
		name = sig.Name
	}
	m := &Method{
		GoName:      sig.Name,
		HostName:    HostMemberName(name),
		Static:      sig.Receiver == nil,
		Constructor: sig.Constructor,
		Trait:       sig.Trait,
		Doc:         docLines(sig.Doc),
		Pos:         sig.Pos,
	}
	if sig.Receiver != nil {
		m.MutSelf = sig.Receiver.Mutable
		m.Params = append(m.Params, &Param{Name: "this", HostName: "this", Receiver: true})
	}

	contexts := 0
	for _, pd := range sig.Params {
		t, err := Classify(pd.Type, pd.Attrs)
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case Unit, Fallible:
			return nil, errorf(pd.Type.Pos, "'%s' is not a valid parameter type", pd.Type)
		case ReceiverHandle:
			return nil, errorf(pd.Type.Pos, "the receiver type is only valid as a constructor result")
		case RuntimeContext:
			contexts++
			if contexts > 1 {
				return nil, errorf(pd.Type.Pos, "the runtime context may only be taken once")
			}
		}
		m.Params = append(m.Params, &Param{Name: pd.Name, HostName: hostParamName(pd.Name), Type: t})
	}

	if sig.Result != nil {
		t, err := Classify(sig.Result, sig.Attrs)
		if err != nil {
			return nil, err
		}
		m.Result = t
	}

	if err := m.check(sig); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Method) check(sig Signature) error {
	ret := m.Result.Unwrap()
	if m.Constructor {
		if !m.Static {
			return errorf(m.Pos, "constructor %s cannot have a receiver", m.GoName)
		}
		if ret == nil || ret.Kind != ReceiverHandle {
			return errorf(m.Pos, "constructor %s must return a pointer to its class, optionally with an error", m.GoName)
		}
		return nil
	}

	if ret != nil {
		switch {
		case ret.Kind == ReceiverHandle:
			return errorf(m.Pos, "%s: the receiver type is only valid as a constructor result", m.GoName)
		case ret.Contains(ObjectRef), ret.Contains(Callback), ret.Kind == RuntimeContext:
			return errorf(m.Pos, "%s: returning '%s' is not supported", m.GoName, sig.Result)
		}
	}

	if m.Trait {
		return m.checkTrait()
	}
	return nil
}

func (m *Method) checkTrait() error {
	if m.Static {
		return errorf(m.Pos, "interface method %s cannot be static", m.GoName)
	}
	if m.MutSelf {
		return errorf(m.Pos, "interface method %s cannot take a mutable receiver", m.GoName)
	}
	if m.Result == nil || m.Result.Kind != Fallible {
		return errorf(m.Pos, "interface method %s must return an error", m.GoName)
	}
	var ctx *Param
	for _, p := range m.Args() {
		switch {
		case p.IsRuntimeContext():
			ctx = p
		case p.Type.Contains(ObjectRef):
			return errorf(m.Pos, "interface method %s cannot take '%s' parameters", m.GoName, ObjectRef)
		case p.Type.Contains(Callback):
			return errorf(m.Pos, "interface method %s cannot take '%s' parameters", m.GoName, Callback)
		}
	}
	if ctx == nil {
		return errorf(m.Pos, "interface method %s must take the runtime context", m.GoName)
	}
	if !ctx.Type.Mutable {
		return errorf(m.Pos, "interface method %s must take the runtime context as *jnirt.Env", m.GoName)
	}
	return nil
}

// Receiver returns the receiver parameter, or nil for static methods.
func (m *Method) Receiver() *Param {
	if len(m.Params) > 0 && m.Params[0].Receiver {
		return m.Params[0]
	}
	return nil
}

// Args returns the declared parameters without the receiver.
func (m *Method) Args() []*Param {
	if m.Receiver() != nil {
		return m.Params[1:]
	}
	return m.Params
}

// HostArgs returns the parameters the host passes: no receiver and no
// runtime context.
func (m *Method) HostArgs() []*Param {
	var out []*Param
	for _, p := range m.Args() {
		if !p.IsRuntimeContext() {
			out = append(out, p)
		}
	}
	return out
}

// Fallible reports whether the method returns an error.
func (m *Method) Fallible() bool {
	return m.Result != nil && m.Result.Kind == Fallible
}

// Returns reports whether a value crosses back to the host.
func (m *Method) Returns() bool { return !m.Result.IsVoid() }

// Descriptor is the JNI descriptor of the host-visible signature.
func (m *Method) Descriptor() string {
	var params []*BridgeType
	for _, p := range m.HostArgs() {
		params = append(params, p.Type)
	}
	return MethodDescriptor(params, m.Result)
}

// Sentinel is the value returned after raising an exception.
func (m *Method) Sentinel() Sentinel { return SentinelOf(m.Result) }

// JavaImports lists the classes the host declaration needs.
func (m *Method) JavaImports() []string {
	var out []string
	for _, p := range m.HostArgs() {
		out = append(out, JavaImports(p.Type)...)
	}
	return append(out, JavaImports(m.Result)...)
}

func docLines(doc string) []string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil
	}
	lines := strings.Split(doc, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}
