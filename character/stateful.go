package character

// ProcessStatefulHits rebuilds StatefulHits from the hits of this update. A body hit this update
// is in Enter or Stay depending on the previous state. A body that was hit last update and is no
// longer hit appears once in Exit, and is dropped on the next update. Every body appears at most
// once.
func (ctx *Context) ProcessStatefulHits(a *Actor) {
	a.previousStatefulHits = append(a.previousStatefulHits[:0], a.StatefulHits...)
	a.StatefulHits = a.StatefulHits[:0]

	previous := ctx.statefulIndex
	clearMap(previous)
	for i, h := range a.previousStatefulHits {
		previous.Set(h.Body, i)
	}

	added := ctx.processedBodies
	clearMap(added)
	for _, h := range a.CharacterHits {
		if _, ok := added.Get(h.Body); ok {
			continue
		}
		added.Set(h.Body, struct{}{})

		state := HitEnter
		if i, ok := previous.Get(h.Body); ok {
			switch a.previousStatefulHits[i].State {
			case HitEnter, HitStay:
				state = HitStay
			case HitExit:
				state = HitEnter
			}
		}
		a.StatefulHits = append(a.StatefulHits, StatefulHit{Hit: h, State: state})
	}

	for _, old := range a.previousStatefulHits {
		if old.State == HitExit {
			continue
		}
		if _, ok := added.Get(old.Body); ok {
			continue
		}
		a.StatefulHits = append(a.StatefulHits, StatefulHit{Hit: old.Hit, State: HitExit})
	}
}
