package phase

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_RoundTripsAllIdentifiers(t *testing.T) {
	for _, p := range All() {
		parsed, err := Parse(p.ID())
		require.NoError(t, err)
		require.Equal(t, p, parsed)
	}
}

func TestParse_RejectsUnknownIdentifier(t *testing.T) {
	_, err := Parse("phase-7")
	require.Error(t, err)

	_, err = Parse("brief")
	require.Error(t, err)
}

func TestThrough_IncludesTargetAndEverythingBelow(t *testing.T) {
	phases := Through(PhaseCopy)
	require.Equal(t, []Phase{PhaseBrief, PhaseStructure, PhaseCopy}, phases)

	require.Len(t, Through(Final), Count)
	require.Nil(t, Through(Phase(-1)))
	require.Nil(t, Through(Phase(Count)))
}

func TestNames_StayAlignedWithIdentifiers(t *testing.T) {
	require.Equal(t, "phase-0", PhaseBrief.ID())
	require.Equal(t, "brief", PhaseBrief.Name())
	require.Equal(t, "phase-6", PhaseReview.ID())
	require.Equal(t, "review", PhaseReview.Name())
}

func TestPhase_OutOfRangeIsInvalid(t *testing.T) {
	require.False(t, Phase(-1).Valid())
	require.False(t, Phase(Count).Valid())
	require.Equal(t, "unknown", Phase(99).Name())
}
