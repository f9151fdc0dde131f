package model

import "sort"

// Patch is a partial adjustment vector. Only present keys are written when it
// is applied; absent fields are left untouched.
type Patch map[Field]int

// Capture copies the fields selected in sel out of v.
func Capture(v AdjustmentVector, sel CategorySelection) Patch {
	p := make(Patch, len(sel.Fields()))
	for _, f := range sel.Fields() {
		p[f] = v.Get(f)
	}
	return p
}

// ApplyTo returns v with every present field overwritten and clamped.
func (p Patch) ApplyTo(v AdjustmentVector) AdjustmentVector {
	for f, value := range p {
		if f.Valid() {
			v = v.With(f, value)
		}
	}
	return v
}

// Fields lists the present fields in display order.
func (p Patch) Fields() []Field {
	out := make([]Field, 0, len(p))
	for f := range p {
		out = append(out, f)
	}
	order := make(map[Field]int, len(p))
	for i, f := range AllFields() {
		order[f] = i
	}
	sort.Slice(out, func(i, j int) bool { return order[out[i]] < order[out[j]] })
	return out
}

// Selection reports which scored fields the patch covers.
func (p Patch) Selection() CategorySelection {
	var s CategorySelection
	for f := range p {
		s = s.With(f)
	}
	return s
}

// Clone returns an independent copy.
func (p Patch) Clone() Patch {
	if p == nil {
		return nil
	}
	out := make(Patch, len(p))
	for f, v := range p {
		out[f] = v
	}
	return out
}
