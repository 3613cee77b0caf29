package world

// Relations maps another agent's id to relation values keyed by axis
// (affinity, trust, rivalry, etc; the concrete taxonomy is static-data
// content out of scope per spec §1). The axis is a free-form string key so
// new kinds don't require a schema change.
type Relations map[AgentID]map[string]float64

// NewRelations returns an empty relation map.
func NewRelations() Relations {
	return make(Relations)
}

// Get returns the relation value o holds on axis kind, or 0 if unset.
func (r Relations) Get(o AgentID, kind string) float64 {
	if m, ok := r[o]; ok {
		return m[kind]
	}
	return 0
}

// set is the unmirrored primitive; callers must use SetMutual to keep both
// sides of a relation consistent (spec §3 "Ownership": "cross-agent
// relations are two mirrored entries, each owned by one side; mutation
// requires touching both sides atomically").
func (r Relations) set(o AgentID, kind string, delta float64) {
	if r[o] == nil {
		r[o] = make(map[string]float64)
	}
	r[o][kind] += delta
}

// SetMutual applies delta to both sides of a relation in one call, so no
// intermediate single-sided state is ever observable from outside this
// function (spec §9 "Two-party writes"). The two relation maps may belong to
// the same agent pair in either order; SetMutual does not assume symmetry of
// the delta applied to each side, since e.g. affinity after an Attack is not
// symmetric.
func SetMutual(aRel Relations, aID AgentID, bRel Relations, bID AgentID, kind string, deltaToB, deltaToA float64) {
	aRel.set(bID, kind, deltaToB)
	bRel.set(aID, kind, deltaToA)
}
