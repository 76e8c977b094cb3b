package buildstate

import (
	"fmt"

	"git.home.luguber.info/inful/sitebuilder/internal/phase"
)

// GateResult is the outcome of a gate check.
type GateResult struct {
	Passed bool
	Reason string
}

// CheckAllGates verifies that every phase ordinally at or below targetPhase is
// recorded complete in the state. On failure the reason names the first
// missing phase. Pure function of its inputs.
func CheckAllGates(bs *BuildState, targetPhase phase.Phase) GateResult {
	if bs == nil {
		return GateResult{Passed: false, Reason: "no build state"}
	}
	if !targetPhase.Valid() {
		return GateResult{Passed: false, Reason: fmt.Sprintf("target %s is not a defined phase", targetPhase.ID())}
	}
	for _, p := range phase.Through(targetPhase) {
		if !bs.IsComplete(p) {
			return GateResult{
				Passed: false,
				Reason: fmt.Sprintf("%s is not complete", p),
			}
		}
	}
	return GateResult{Passed: true}
}
