// Package stage holds an in-memory scene document: a tree of typed prims
// with attributes, relationships, variant sets and per-frame time samples,
// serializable to the renderer's native usda text format.
//
// A Stage is an explicit handle. Authoring components receive it as an
// argument; there is no package-level document state.
package stage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ivlev/stagecraft/internal/spatial"
)

// ValueType enumerates the attribute value types the document can carry.
type ValueType int

const (
	TypeBool ValueType = iota
	TypeInt
	TypeFloat
	TypeDouble
	TypeToken
	TypeString
	TypeAsset
	TypeColor3f
	TypeFloat2
	TypeInt2
	TypeDouble3
	TypePoint3Array
	TypeIntArray
	TypeTokenArray

	// TypeConnection is a token attribute whose value is a property path,
	// serialized in angle brackets (shader output connections).
	TypeConnection
)

// usdaName returns the usda spelling of the type.
func (t ValueType) usdaName() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeToken:
		return "token"
	case TypeString:
		return "string"
	case TypeAsset:
		return "asset"
	case TypeColor3f:
		return "color3f"
	case TypeFloat2:
		return "float2"
	case TypeInt2:
		return "int2"
	case TypeDouble3:
		return "double3"
	case TypePoint3Array:
		return "point3f[]"
	case TypeIntArray:
		return "int[]"
	case TypeTokenArray:
		return "token[]"
	case TypeConnection:
		return "token"
	}
	return "token"
}

// Attr is a named, typed attribute. Value holds the default; Samples holds
// time-sampled values keyed by integer frame.
type Attr struct {
	Name    string
	Type    ValueType
	Uniform bool
	Value   any
	Samples map[int]any
}

// Set replaces the default value.
func (a *Attr) Set(v any) { a.Value = v }

// SetSample records a value for one frame, replacing any previous sample.
func (a *Attr) SetSample(frame int, v any) {
	if a.Samples == nil {
		a.Samples = make(map[int]any)
	}
	a.Samples[frame] = v
}

// sampleFrames returns the sampled frames in increasing order.
func (a *Attr) sampleFrames() []int {
	frames := make([]int, 0, len(a.Samples))
	for f := range a.Samples {
		frames = append(frames, f)
	}
	sort.Ints(frames)
	return frames
}

// Rel is a relationship: a named list of prim path targets.
type Rel struct {
	Name    string
	Targets []string
}

// XformOp identifies a transform operation on a prim. Applying an op is an
// idempotent upsert against the prim's attribute table.
type XformOp int

const (
	OpTranslate XformOp = iota
	OpRotateX
	OpRotateY
	OpRotateZ
	OpScale
)

// AttrName returns the attribute the op is stored under.
func (op XformOp) AttrName() string {
	switch op {
	case OpTranslate:
		return "xformOp:translate"
	case OpRotateX:
		return "xformOp:rotateX"
	case OpRotateY:
		return "xformOp:rotateY"
	case OpRotateZ:
		return "xformOp:rotateZ"
	case OpScale:
		return "xformOp:scale"
	}
	return ""
}

func (op XformOp) valueType() ValueType {
	switch op {
	case OpTranslate, OpScale:
		return TypeDouble3
	default:
		return TypeDouble
	}
}

// Variant is a named set of attribute overrides inside a variant set.
type Variant struct {
	Name  string
	attrs []*Attr
	index map[string]*Attr
}

// SetAttr upserts an override attribute on the variant.
func (v *Variant) SetAttr(name string, t ValueType, value any) *Attr {
	if a, ok := v.index[name]; ok {
		a.Type = t
		a.Value = value
		return a
	}
	a := &Attr{Name: name, Type: t, Value: value}
	if v.index == nil {
		v.index = make(map[string]*Attr)
	}
	v.attrs = append(v.attrs, a)
	v.index[name] = a
	return a
}

// VariantSet is a named group of variants with at most one selected.
type VariantSet struct {
	Name      string
	Variants  []*Variant
	Selection string
}

// AddVariant returns the named variant, creating it if missing.
func (vs *VariantSet) AddVariant(name string) *Variant {
	for _, v := range vs.Variants {
		if v.Name == name {
			return v
		}
	}
	v := &Variant{Name: name}
	vs.Variants = append(vs.Variants, v)
	return v
}

// Select switches the active variant. Selecting an unknown variant is an
// error so a typo cannot silently disable a look.
func (vs *VariantSet) Select(name string) error {
	for _, v := range vs.Variants {
		if v.Name == name {
			vs.Selection = name
			return nil
		}
	}
	return fmt.Errorf("variant set %q has no variant %q", vs.Name, name)
}

// Prim is a named node in the document tree.
type Prim struct {
	name     string
	typeName string
	parent   *Prim

	children   []*Prim
	childIndex map[string]*Prim

	attrs     []*Attr
	attrIndex map[string]*Attr

	rels []*Rel

	variantSets []*VariantSet

	references []string
	payloads   []string

	xformOrder []string
}

// Name returns the prim's own name.
func (p *Prim) Name() string { return p.name }

// TypeName returns the schema type ("Sphere", "Camera", ...); empty for a
// plain ancestor prim.
func (p *Prim) TypeName() string { return p.typeName }

// Path returns the absolute prim path.
func (p *Prim) Path() string {
	if p.parent == nil {
		return "/" + p.name
	}
	return p.parent.Path() + "/" + p.name
}

// SetAttr upserts an attribute: present attributes get the new type and
// value, missing ones are created. Time samples survive a value update.
func (p *Prim) SetAttr(name string, t ValueType, value any) *Attr {
	if a, ok := p.attrIndex[name]; ok {
		a.Type = t
		a.Value = value
		return a
	}
	a := &Attr{Name: name, Type: t, Value: value}
	if p.attrIndex == nil {
		p.attrIndex = make(map[string]*Attr)
	}
	p.attrs = append(p.attrs, a)
	p.attrIndex[name] = a
	return a
}

// SetUniformAttr upserts an attribute declared uniform (not animatable).
func (p *Prim) SetUniformAttr(name string, t ValueType, value any) *Attr {
	a := p.SetAttr(name, t, value)
	a.Uniform = true
	return a
}

// Attr returns the named attribute if present.
func (p *Prim) Attr(name string) (*Attr, bool) {
	a, ok := p.attrIndex[name]
	return a, ok
}

// HasAttr reports whether the attribute exists.
func (p *Prim) HasAttr(name string) bool {
	_, ok := p.attrIndex[name]
	return ok
}

// SetRel upserts a relationship.
func (p *Prim) SetRel(name string, targets ...string) *Rel {
	for _, r := range p.rels {
		if r.Name == name {
			r.Targets = targets
			return r
		}
	}
	r := &Rel{Name: name, Targets: targets}
	p.rels = append(p.rels, r)
	return r
}

// ApplyXformOp ensures the op's attribute exists and is listed in
// xformOpOrder, and returns it. Reapplying an op is a no-op beyond returning
// the existing attribute, so animation helpers can call it per frame.
func (p *Prim) ApplyXformOp(op XformOp) *Attr {
	name := op.AttrName()
	if a, ok := p.attrIndex[name]; ok {
		return a
	}
	a := p.SetAttr(name, op.valueType(), nil)
	p.xformOrder = append(p.xformOrder, name)
	return a
}

// SetXformOp applies the op and sets its default value.
func (p *Prim) SetXformOp(op XformOp, value any) *Attr {
	a := p.ApplyXformOp(op)
	a.Set(value)
	return a
}

// SetXformOpSample applies the op and records a time sample.
func (p *Prim) SetXformOpSample(op XformOp, frame int, value any) *Attr {
	a := p.ApplyXformOp(op)
	a.SetSample(frame, value)
	return a
}

// SetTranslation is shorthand for a translate op with a vector value.
func (p *Prim) SetTranslation(v spatial.Vec3) *Attr {
	return p.SetXformOp(OpTranslate, v)
}

// AddVariantSet returns the named variant set, creating it if missing.
func (p *Prim) AddVariantSet(name string) *VariantSet {
	for _, vs := range p.variantSets {
		if vs.Name == name {
			return vs
		}
	}
	vs := &VariantSet{Name: name}
	p.variantSets = append(p.variantSets, vs)
	return vs
}

// VariantSet returns the named variant set if present.
func (p *Prim) VariantSet(name string) (*VariantSet, bool) {
	for _, vs := range p.variantSets {
		if vs.Name == name {
			return vs, true
		}
	}
	return nil, false
}

// AddReference mounts an external document under this prim.
func (p *Prim) AddReference(assetPath string) { p.references = append(p.references, assetPath) }

// AddPayload mounts an external document lazily under this prim.
func (p *Prim) AddPayload(assetPath string) { p.payloads = append(p.payloads, assetPath) }

// Children returns the child prims in authoring order.
func (p *Prim) Children() []*Prim { return p.children }

func (p *Prim) child(name string) (*Prim, bool) {
	c, ok := p.childIndex[name]
	return c, ok
}

func (p *Prim) addChild(name, typeName string) *Prim {
	c := &Prim{name: name, typeName: typeName, parent: p}
	if p.childIndex == nil {
		p.childIndex = make(map[string]*Prim)
	}
	p.children = append(p.children, c)
	p.childIndex[name] = c
	return c
}

// Stage is the document root.
type Stage struct {
	upAxis        string
	metersPerUnit float64
	defaultPrim   string

	hasTimeCodes       bool
	startTime, endTime int

	metadata map[string]string

	roots     []*Prim
	rootIndex map[string]*Prim
}

// New creates an empty stage with Y up and centimeter scale, matching the
// authoring defaults used across the pipeline.
func New() *Stage {
	return &Stage{
		upAxis:        "Y",
		metersPerUnit: 0.01,
		rootIndex:     make(map[string]*Prim),
	}
}

// SetUpAxis sets the stage up axis token ("Y" or "Z").
func (s *Stage) SetUpAxis(axis string) { s.upAxis = axis }

// SetMetersPerUnit sets the linear unit scale.
func (s *Stage) SetMetersPerUnit(m float64) { s.metersPerUnit = m }

// SetDefaultPrim marks the root prim the document opens on.
func (s *Stage) SetDefaultPrim(p *Prim) { s.defaultPrim = p.name }

// SetTimeCodes sets the animated frame range recorded in the layer.
func (s *Stage) SetTimeCodes(start, end int) {
	s.hasTimeCodes = true
	s.startTime, s.endTime = start, end
}

// TimeCodes reports the recorded frame range, if any.
func (s *Stage) TimeCodes() (start, end int, ok bool) {
	return s.startTime, s.endTime, s.hasTimeCodes
}

// SetMetadata records a string layer-metadata entry, such as the render
// settings prim path.
func (s *Stage) SetMetadata(key, value string) {
	if s.metadata == nil {
		s.metadata = make(map[string]string)
	}
	s.metadata[key] = value
}

// DefinePrim returns the prim at an absolute path, creating it and any
// missing ancestors. Ancestors created on the way get no schema type. Calling
// DefinePrim again for an existing path is an upsert: an empty type is filled
// in, a conflicting one is an error.
func (s *Stage) DefinePrim(path, typeName string) (*Prim, error) {
	segs, err := splitPath(path)
	if err != nil {
		return nil, err
	}

	var cur *Prim
	for i, seg := range segs {
		last := i == len(segs)-1
		t := ""
		if last {
			t = typeName
		}

		var next *Prim
		var ok bool
		if cur == nil {
			next, ok = s.rootIndex[seg]
			if !ok {
				next = &Prim{name: seg, typeName: t}
				s.roots = append(s.roots, next)
				s.rootIndex[seg] = next
			}
		} else {
			next, ok = cur.child(seg)
			if !ok {
				next = cur.addChild(seg, t)
			}
		}

		if ok && last {
			if next.typeName == "" {
				next.typeName = typeName
			} else if typeName != "" && next.typeName != typeName {
				return nil, fmt.Errorf("prim %s already defined as %s, not %s", path, next.typeName, typeName)
			}
		}
		cur = next
	}
	return cur, nil
}

// GetPrim returns the prim at an absolute path if it exists.
func (s *Stage) GetPrim(path string) (*Prim, bool) {
	segs, err := splitPath(path)
	if err != nil {
		return nil, false
	}
	cur, ok := s.rootIndex[segs[0]]
	if !ok {
		return nil, false
	}
	for _, seg := range segs[1:] {
		cur, ok = cur.child(seg)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func splitPath(path string) ([]string, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("prim path %q must be absolute", path)
	}
	segs := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for _, seg := range segs {
		if !validIdentifier(seg) {
			return nil, fmt.Errorf("prim path %q has invalid segment %q", path, seg)
		}
	}
	return segs, nil
}

func validIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
