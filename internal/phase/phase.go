// Package phase defines the ordered build-phase enumeration for a site project.
//
// Every project moves through the same fixed sequence of milestones, phase-0
// through phase-6. A phase is only ever marked complete after all lower-ordered
// phases; gate checks elsewhere rely on that invariant.
package phase

import "fmt"

// Phase identifies one milestone in the site-build workflow.
type Phase int

const (
	PhaseBrief     Phase = iota // phase-0: business brief and goals
	PhaseStructure              // phase-1: sitemap and page structure
	PhaseCopy                   // phase-2: page copywriting
	PhaseDesign                 // phase-3: visual design and fonts
	PhaseImagery                // phase-4: image generation and placement
	PhaseAssembly               // phase-5: site assembly
	PhaseReview                 // phase-6: final review
)

// Final is the last phase in the workflow; the prebuild gate targets it.
const Final = PhaseReview

var ids = [...]string{
	"phase-0",
	"phase-1",
	"phase-2",
	"phase-3",
	"phase-4",
	"phase-5",
	"phase-6",
}

var names = [...]string{
	"brief",
	"structure",
	"copy",
	"design",
	"imagery",
	"assembly",
	"review",
}

// Count is the number of phases in the workflow.
const Count = len(ids)

// ID returns the canonical phase identifier (e.g. "phase-2") used in persisted
// state and manifests.
func (p Phase) ID() string {
	if p < 0 || int(p) >= Count {
		return fmt.Sprintf("phase-?(%d)", int(p))
	}
	return ids[p]
}

// Name returns the human-readable phase name (e.g. "copy").
func (p Phase) Name() string {
	if p < 0 || int(p) >= Count {
		return "unknown"
	}
	return names[p]
}

func (p Phase) String() string {
	if p < 0 || int(p) >= Count {
		return p.ID()
	}
	return fmt.Sprintf("%s (%s)", p.ID(), p.Name())
}

// Valid reports whether p is within the defined enumeration.
func (p Phase) Valid() bool {
	return p >= 0 && int(p) < Count
}

// Parse resolves a canonical identifier like "phase-3" to its Phase.
func Parse(id string) (Phase, error) {
	for i, known := range ids {
		if id == known {
			return Phase(i), nil
		}
	}
	return -1, fmt.Errorf("unknown phase identifier %q", id)
}

// All returns every phase in ascending order.
func All() []Phase {
	out := make([]Phase, Count)
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

// Through returns every phase ordinally less than or equal to target, in
// ascending order. An out-of-range target yields nil.
func Through(target Phase) []Phase {
	if !target.Valid() {
		return nil
	}
	out := make([]Phase, 0, int(target)+1)
	for p := PhaseBrief; p <= target; p++ {
		out = append(out, p)
	}
	return out
}
