package types

import (
	ierr "github.com/guardianapis/product-switch/internal/errors"
	"github.com/samber/lo"
)

// SwitchMode selects how the target plan's price is computed.
type SwitchMode string

const (
	// SwitchModeBasePrice carries the previous amount over, topped up to at
	// least the target plan's catalog price.
	SwitchModeBasePrice SwitchMode = "switchToBasePrice"

	// SwitchModePriceOverride uses a caller-supplied amount, which must not
	// undercut the target plan's catalog price.
	SwitchModePriceOverride SwitchMode = "switchWithPriceOverride"

	// SwitchModeSave applies the retention discount to the target plan's
	// catalog price, subject to eligibility.
	SwitchModeSave SwitchMode = "save"
)

func SwitchModes() []SwitchMode {
	return []SwitchMode{SwitchModeBasePrice, SwitchModePriceOverride, SwitchModeSave}
}

func (m SwitchMode) String() string {
	return string(m)
}

func (m SwitchMode) Validate() error {
	if !lo.Contains(SwitchModes(), m) {
		return ierr.NewErrorf("invalid switch mode: %s", m).
			WithHintf("valid modes are: %v", SwitchModes()).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// FilterPolicy selects which historical rate plans and charges survive
// subscription filtering. The choice is always explicit at the call site;
// the two policies differ subtly around cancellation and pending amendments.
type FilterPolicy string

const (
	// FilterPolicyActiveCurrent retains only charges whose effective window
	// contains the reference date: what the customer is on right now,
	// ignoring pending future amendments.
	FilterPolicyActiveCurrent FilterPolicy = "active_current"

	// FilterPolicyActiveNonEnded retains plans that have not been removed
	// and charges that have not yet ended, including pending future
	// amendments. This is the policy used before a switch.
	FilterPolicyActiveNonEnded FilterPolicy = "active_non_ended"
)

func (p FilterPolicy) Validate() error {
	allowed := []FilterPolicy{FilterPolicyActiveCurrent, FilterPolicyActiveNonEnded}
	if !lo.Contains(allowed, p) {
		return ierr.NewErrorf("invalid filter policy: %s", p).
			Mark(ierr.ErrValidation)
	}
	return nil
}
