// Package buildstate persists and queries the per-project build-phase record.
//
// The state file lives at <project>/.sitebuilder/build-state.json. The prebuild
// pipeline only reads it; writes happen when a phase completes (scaffolding
// writes the initial record). Saves are atomic via tmp+rename so a crashed
// writer never leaves a truncated state file behind.
package buildstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/sitebuilder/internal/phase"
)

// BuilderType distinguishes how a project's site is assembled.
type BuilderType string

const (
	BuilderTemplate BuilderType = "template"
	BuilderCustom   BuilderType = "custom"
)

// Valid reports whether bt is a known builder type.
func (bt BuilderType) Valid() bool {
	return bt == BuilderTemplate || bt == BuilderCustom
}

// Sentinel errors returned by Load, distinguishable with errors.Is.
var (
	// ErrNotFound indicates no state file exists at the expected location.
	ErrNotFound = errors.New("build state not found")
	// ErrInvalid indicates the state file exists but is malformed or missing
	// required fields.
	ErrInvalid = errors.New("build state invalid")
)

// StateFileName is the build-state file name under the project state directory.
const StateFileName = "build-state.json"

// StateDirName is the hidden per-project state directory.
const StateDirName = ".sitebuilder"

// BuildState is the persisted record of which phases a project has completed.
type BuildState struct {
	BuilderType     BuilderType          `json:"builder_type"`
	CompletedPhases map[string]time.Time `json:"completed_phases"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// New returns an empty state for a freshly scaffolded project.
func New(bt BuilderType) *BuildState {
	now := time.Now().UTC()
	return &BuildState{
		BuilderType:     bt,
		CompletedPhases: make(map[string]time.Time),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// IsComplete reports whether the given phase is recorded as complete.
func (bs *BuildState) IsComplete(p phase.Phase) bool {
	_, ok := bs.CompletedPhases[p.ID()]
	return ok
}

// MarkPhaseComplete records p as complete. Every lower-ordered phase must
// already be complete; marking out of order is rejected.
func (bs *BuildState) MarkPhaseComplete(p phase.Phase) error {
	if !p.Valid() {
		return fmt.Errorf("cannot complete %s: not a defined phase", p.ID())
	}
	for _, prior := range phase.Through(p) {
		if prior == p {
			continue
		}
		if !bs.IsComplete(prior) {
			return fmt.Errorf("cannot complete %s before %s", p, prior)
		}
	}
	if bs.CompletedPhases == nil {
		bs.CompletedPhases = make(map[string]time.Time)
	}
	bs.CompletedPhases[p.ID()] = time.Now().UTC()
	bs.UpdatedAt = time.Now().UTC()
	return nil
}

// StatePath returns the state file location for a project.
func StatePath(projectPath string) string {
	return filepath.Join(projectPath, StateDirName, StateFileName)
}

// Load reads and validates the build state for a project.
//
// Returns ErrNotFound when no state file exists and ErrInvalid when the file
// is not well-formed JSON or fails field validation; both are wrapped so the
// caller can errors.Is against them.
func Load(projectPath string) (*BuildState, error) {
	statePath := StatePath(projectPath)

	data, err := os.ReadFile(statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, statePath)
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var bs BuildState
	if err := json.Unmarshal(data, &bs); err != nil {
		return nil, fmt.Errorf("%w: not well-formed JSON: %v", ErrInvalid, err)
	}

	if err := bs.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return &bs, nil
}

// validate checks required fields and the phase-ordering invariant.
func (bs *BuildState) validate() error {
	if bs.BuilderType == "" {
		return errors.New("missing required field builder_type")
	}
	if !bs.BuilderType.Valid() {
		return fmt.Errorf("unknown builder_type %q", bs.BuilderType)
	}
	if bs.CompletedPhases == nil {
		return errors.New("missing required field completed_phases")
	}
	for id := range bs.CompletedPhases {
		p, err := phase.Parse(id)
		if err != nil {
			return fmt.Errorf("completed_phases: %v", err)
		}
		// A complete phase implies all lower-ordered phases are complete.
		for _, prior := range phase.Through(p) {
			if !bs.IsComplete(prior) {
				return fmt.Errorf("%s complete but %s is not", p.ID(), prior.ID())
			}
		}
	}
	return nil
}

// Save writes the state atomically under the project's state directory.
func Save(projectPath string, bs *BuildState) error {
	stateDir := filepath.Join(projectPath, StateDirName)
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(bs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	statePath := filepath.Join(stateDir, StateFileName)
	tempPath := statePath + ".tmp"

	// Atomic write using temporary file
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("write temporary state file: %w", err)
	}
	if err := os.Rename(tempPath, statePath); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}
