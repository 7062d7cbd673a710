package world

// CollideAll checks every pair within one collection, brute force.
func CollideAll(bodies []*Body, memo *PairMemo) ([]Contact, error) {
	if memo == nil {
		memo = NewPairMemo()
	}
	var contacts []Contact
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			var err error
			contacts, err = collideInto(contacts, memo, bodies[i], bodies[j])
			if err != nil {
				return contacts, err
			}
		}
	}
	return contacts, nil
}

// CollideSets checks every body of from against every body of against.
func CollideSets(from, against []*Body, memo *PairMemo) ([]Contact, error) {
	if memo == nil {
		memo = NewPairMemo()
	}
	var contacts []Contact
	for _, a := range from {
		for _, b := range against {
			var err error
			contacts, err = collideInto(contacts, memo, a, b)
			if err != nil {
				return contacts, err
			}
		}
	}
	return contacts, nil
}

func collideInto(contacts []Contact, memo *PairMemo, a, b *Body) ([]Contact, error) {
	bounce, err := memo.Collide(a, b)
	if err != nil {
		return contacts, err
	}
	if bounce == BounceNone {
		return contacts, nil
	}
	mover, other := a, b
	if a.Fixed {
		mover, other = b, a
	}
	return append(contacts, Contact{A: mover, B: other, Bounce: bounce}), nil
}
