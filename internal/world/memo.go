package world

// pairKey identifies a pair by body identity, so bodies not yet given an ID
// are still told apart.
type pairKey struct {
	a, b *Body
}

func (m *PairMemo) lookup(a, b *Body) bool {
	if _, ok := m.seen[pairKey{a: a, b: b}]; ok {
		return true
	}
	_, ok := m.seen[pairKey{a: b, b: a}]
	return ok
}

// PairMemo records the unordered body pairs already checked during one tick.
// The tick driver creates a memo at tick start and drops it at tick end, so
// no pair is resolved twice in a tick regardless of which side asks.
type PairMemo struct {
	seen map[pairKey]struct{}
}

// NewPairMemo returns an empty memo.
func NewPairMemo() *PairMemo {
	return &PairMemo{seen: make(map[pairKey]struct{})}
}

// Seen reports whether the pair was already checked.
func (m *PairMemo) Seen(a, b *Body) bool {
	if m == nil || a == nil || b == nil {
		return false
	}
	return m.lookup(a, b)
}

// Len returns the number of recorded pairs.
func (m *PairMemo) Len() int {
	if m == nil {
		return 0
	}
	return len(m.seen)
}

// Collide runs Collide for a pair that has not been checked this tick and
// records it. Self pairs and repeated pairs return BounceNone.
func (m *PairMemo) Collide(a, b *Body) (Bounce, error) {
	if a == nil || b == nil || a == b {
		return BounceNone, nil
	}
	if m == nil {
		return Collide(a, b)
	}
	if m.lookup(a, b) {
		return BounceNone, nil
	}
	if m.seen == nil {
		m.seen = make(map[pairKey]struct{})
	}
	m.seen[pairKey{a: a, b: b}] = struct{}{}
	return Collide(a, b)
}
