package widget

import (
	"strconv"
	"time"

	"UD_missions_miniapp/internal/model"
)

type ButtonState string

const (
	ButtonLoading    ButtonState = "loading"
	ButtonClaimable  ButtonState = "claimable"
	ButtonOnCooldown ButtonState = "cooldown"
	ButtonSubmitting ButtonState = "submitting"
)

var buttonLabels = map[model.MissionKind]string{
	model.MissionHourly: "Hourly reward",
	model.MissionDaily:  "Daily reward",
}

type Button struct {
	Kind        model.MissionKind
	Label       string
	State       ButtonState
	Enabled     bool
	CooldownEnd time.Time
	Remaining   Remaining
}

type View struct {
	SignedIn   bool
	Loading    bool
	PointsText string
	Error      string
	Buttons    []Button
}

// Present derives the view for now. It is a pure function of its inputs.
func Present(state State, now time.Time) View {
	view := View{
		SignedIn:   state.SignedIn,
		Loading:    !state.Loaded,
		PointsText: strconv.Itoa(state.Status.Points),
		Error:      state.Error,
		Buttons:    make([]Button, 0, len(model.MissionKinds)),
	}

	for _, kind := range model.MissionKinds {
		view.Buttons = append(view.Buttons, presentButton(state, kind, now))
	}

	return view
}

func presentButton(state State, kind model.MissionKind, now time.Time) Button {
	last := state.Status.LastClaim(kind)
	end := model.CooldownEnd(last, kind)

	button := Button{
		Kind:        kind,
		Label:       buttonLabels[kind],
		CooldownEnd: end,
		Remaining:   RemainingUntil(now, end),
	}

	switch {
	case !state.Loaded:
		button.State = ButtonLoading
	case state.Submitting[kind]:
		button.State = ButtonSubmitting
	case model.Claimable(now, last, kind):
		button.State = ButtonClaimable
		button.Enabled = state.SignedIn
	default:
		button.State = ButtonOnCooldown
	}

	return button
}
