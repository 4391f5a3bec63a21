package event

// Typed views over Event rows, produced after feature computation. They
// mirror the outward vocabulary (miss/goal, successful/unsuccessful) rather
// than the internal tri-state outcome.

type Shot struct {
	Event
	ShotOutcome string // "miss" or "goal"
	XG          float64
	XT          float64
}

type Pass struct {
	Event
	PassOutcome string // "successful", "unsuccessful" or "not_specified"
	XT          float64
}

type Dribble struct {
	Event
	Successful bool
	XT         float64
}

func NewShot(e Event) Shot {
	outcome := "miss"
	if e.Outcome == OutcomeSuccess {
		outcome = "goal"
	}
	return Shot{Event: e, ShotOutcome: outcome}
}

func NewPass(e Event) Pass {
	outcome := "not_specified"
	switch e.Outcome {
	case OutcomeSuccess:
		outcome = "successful"
	case OutcomeFail:
		outcome = "unsuccessful"
	}
	return Pass{Event: e, PassOutcome: outcome}
}

func NewDribble(e Event) Dribble {
	return Dribble{Event: e, Successful: e.Outcome == OutcomeSuccess}
}
