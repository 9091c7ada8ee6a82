package benchmark

// A Phase is one timed step of the benchmark.
type Phase string

// The phases in their default order.
const (
	// PhaseInsert adds every object, then clears the tree.
	PhaseInsert = Phase("insert")
	// PhaseDelete removes every object from a populated tree.
	PhaseDelete = Phase("delete")
	// PhaseReinsert moves every object, then removes and adds it again.
	PhaseReinsert = Phase("reinsert")
	// PhaseUpdate moves every object, then updates it in place.
	PhaseUpdate = Phase("update")
	// PhaseCull counts the objects the tree reports inside the view frustum.
	PhaseCull = Phase("cull")
	// PhaseScan tests every object against the view frustum.
	PhaseScan = Phase("scan")
	// PhaseScanParallel is PhaseScan split across goroutines.
	PhaseScanParallel = Phase("scan_parallel")
)

// AllPhases returns every phase in its default order.
func AllPhases() []Phase {
	return []Phase{PhaseInsert, PhaseDelete, PhaseReinsert, PhaseUpdate, PhaseCull, PhaseScan, PhaseScanParallel}
}

// populates reports whether the phase starts from a tree holding every object.
func (p Phase) populates() bool {
	return p != PhaseInsert && p != PhaseDelete
}

// counts reports whether the phase measures visibility.
func (p Phase) counts() bool {
	return p == PhaseCull || p == PhaseScan || p == PhaseScanParallel
}
