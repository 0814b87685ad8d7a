package event

import (
	"github.com/delegasi/delegation-manager/internal/errdef"
	"github.com/delegasi/delegation-manager/pkg/model"
)

// Kind names a workflow transition of an event.
type Kind string

const (
	KindVerificatorReject  Kind = "verificator-reject"
	KindAccept             Kind = "accept"
	KindConfirm            Kind = "confirm"
	KindReject             Kind = "reject"
	KindRejectHandler      Kind = "reject-handler"
	KindVerificationReject Kind = "verification-reject"
	KindApprove            Kind = "approve"
	KindFix                Kind = "fix"
)

// Effect is what a transition does to the rejection reason of an event besides setting its status.
type Effect int

const (
	// EffectNone leaves the rejection reason untouched.
	EffectNone Effect = iota
	// EffectSetReason stores the supplied reason verbatim.
	EffectSetReason
	// EffectClearReason removes any previously stored reason.
	EffectClearReason
)

func (e Effect) String() string {
	switch e {
	case EffectSetReason:
		return "set rejection reason"
	case EffectClearReason:
		return "clear rejection reason"
	default:
		return "none"
	}
}

// Transition describes the status an event moves to and the side effect applied on the way.
type Transition struct {
	Kind   Kind         `json:"kind"`
	Target model.Status `json:"target"`
	Effect Effect       `json:"-"`
}

// Transitions is the workflow of an event. Transitions are not guarded by the current status of an
// event, any of them can be applied at any time.
var Transitions = []Transition{
	{Kind: KindVerificatorReject, Target: model.StatusRejected},
	{Kind: KindAccept, Target: model.StatusNeedsRecipientVerification},
	{Kind: KindConfirm, Target: model.StatusRecipientApproved},
	{Kind: KindReject, Target: model.StatusRecipientRejected, Effect: EffectSetReason},
	{Kind: KindRejectHandler, Target: model.StatusRecipientRejected},
	{Kind: KindVerificationReject, Target: model.StatusVerificationRejected},
	{Kind: KindApprove, Target: model.StatusApproved},
	{Kind: KindFix, Target: model.StatusNeedsVerification, Effect: EffectClearReason},
}

// Lookup returns the transition of the given kind.
func Lookup(kind Kind) (Transition, bool) {
	for _, transition := range Transitions {
		if transition.Kind == kind {
			return transition, true
		}
	}
	return Transition{}, false
}

// Apply sets the status of the event according to the transition of the given kind. The reason is
// only used by transitions which store a rejection reason. No other field of the event is touched.
func Apply(event *model.Event, kind Kind, reason string) (Transition, error) {
	transition, ok := Lookup(kind)
	if !ok {
		return Transition{}, errdef.NewBadRequest("unknown transition %q", kind)
	}

	event.Status = transition.Target
	switch transition.Effect {
	case EffectSetReason:
		event.RejectionReason = &reason
	case EffectClearReason:
		event.RejectionReason = nil
	case EffectNone:
	}

	return transition, nil
}
