package ladder

// DefaultTargets returns the program start values and the fixed per-day deltas.
func DefaultTargets() (targets, deltas Values) {
	for _, b := range Program {
		targets.Set(b.Metric, b.Start)
		deltas.Set(b.Metric, b.Delta())
	}
	return targets, deltas
}

// Clamp keeps every target between its start side and its end value and
// forces messaging <= screen. Values within snapEpsilon of the end are
// snapped onto it so float drift cannot leave a target one hair short.
func Clamp(t Values) Values {
	for _, b := range Program {
		v := t.Get(b.Metric)
		if b.Increasing() {
			if v > b.End-snapEpsilon {
				v = b.End
			}
		} else if v < b.End+snapEpsilon {
			v = b.End
		}
		t.Set(b.Metric, v)
	}
	if t.Messaging > t.Screen {
		t.Messaging = t.Screen
	}
	return t
}

// Advance steps every passed metric by its delta. A failed metric keeps its
// target so tomorrow repeats the same challenge.
func Advance(t, d Values, pass PassFlags) Values {
	for _, m := range Metrics {
		if pass[m] {
			t.Set(m, t.Get(m)+d.Get(m))
		}
	}
	if t.Messaging > t.Screen {
		t.Messaging = t.Screen
	}
	return t
}
