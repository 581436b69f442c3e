package physics

// Layer is one temporary override on top of a body's base properties.
// Nil fields and a zero MassScale leave the property untouched.
type Layer struct {
	Name        string
	MassScale   float64
	Material    *Material
	Constraints *Constraints
	Damping     *Damping
}

// Token identifies a pushed layer
type Token uint64

type overlayEntry struct {
	token Token
	layer Layer
}

// Overlay stacks temporary property overrides on a body. The base is
// captured when the first layer is pushed and written back verbatim when
// the last one is popped, so brace and stun overrides can interleave in any
// order without one saving the other's modified state.
//
// Mass composes multiplicatively across layers; material, constraints and
// damping take the most recently pushed layer that sets them.
type Overlay struct {
	body   Body
	base   Props
	layers []overlayEntry
	next   Token
}

// NewOverlay wraps b
func NewOverlay(b Body) *Overlay {
	return &Overlay{body: b}
}

// Body returns the wrapped body
func (o *Overlay) Body() Body {
	return o.body
}

// Push applies l and returns the token needed to remove it
func (o *Overlay) Push(l Layer) Token {
	if len(o.layers) == 0 {
		o.base = Capture(o.body)
	}
	o.next++
	o.layers = append(o.layers, overlayEntry{token: o.next, layer: l})
	o.apply()
	return o.next
}

// Pop removes the layer for t. Unknown or already popped tokens are ignored.
func (o *Overlay) Pop(t Token) bool {
	for i, e := range o.layers {
		if e.token != t {
			continue
		}
		o.layers = append(o.layers[:i], o.layers[i+1:]...)
		if len(o.layers) == 0 {
			o.base.ApplyTo(o.body)
		} else {
			o.apply()
		}
		return true
	}
	return false
}

// Holds reports whether t is still on the stack
func (o *Overlay) Holds(t Token) bool {
	for _, e := range o.layers {
		if e.token == t {
			return true
		}
	}
	return false
}

// Active returns the number of pushed layers
func (o *Overlay) Active() int {
	return len(o.layers)
}

// Base returns the properties that will be restored once all layers are gone
func (o *Overlay) Base() Props {
	if len(o.layers) == 0 {
		return Capture(o.body)
	}
	return o.base
}

// SetBaseMass changes the underlying mass. While layers are active the new
// value is folded into the saved base and the effective mass is recomputed.
func (o *Overlay) SetBaseMass(m float64) {
	m = ClampMass(m)
	if len(o.layers) == 0 {
		o.body.SetMass(m)
		return
	}
	o.base.Mass = m
	o.apply()
}

// SetBaseMaterial changes the underlying material, honouring active layers
func (o *Overlay) SetBaseMaterial(m Material) {
	if len(o.layers) == 0 {
		o.body.SetMaterial(m)
		return
	}
	o.base.Material = m
	o.apply()
}

func (o *Overlay) apply() {
	eff := o.base
	for _, e := range o.layers {
		l := e.layer
		if l.MassScale > 0 {
			eff.Mass *= l.MassScale
		}
		if l.Material != nil {
			eff.Material = *l.Material
		}
		if l.Constraints != nil {
			eff.Constraints = *l.Constraints
		}
		if l.Damping != nil {
			eff.Damping = *l.Damping
		}
	}
	eff.Mass = ClampMass(eff.Mass)
	eff.ApplyTo(o.body)
}
