package populate

import "reflect"

// visit is a source struct reached through a pointer, rebuilt into Dst.
type visit struct {
	Addr uintptr
	Src  reflect.Type
	Dst  reflect.Type
}

// Dealer tracks the visits in progress to detect reference cycles.
type Dealer struct {
	open map[visit]struct{}
}

// Enter marks the visit as in progress. It returns false when the visit is
// already in progress, i.e. the source graph contains a cycle.
func (d *Dealer) Enter(addr uintptr, src, dst reflect.Type) bool {
	if d.open == nil {
		d.open = make(map[visit]struct{})
	}

	v := visit{Addr: addr, Src: src, Dst: dst}
	if _, exists := d.open[v]; exists {
		return false
	}

	d.open[v] = struct{}{}

	return true
}

// Done ends the visit.
func (d *Dealer) Done(addr uintptr, src, dst reflect.Type) {
	delete(d.open, visit{Addr: addr, Src: src, Dst: dst})
}
