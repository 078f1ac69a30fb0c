// Package scheduler merges collaborator proposals into a plan.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/timebox/internal/ai"
	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/slots"
)

var (
	// ErrNoProposal means the collaborator produced nothing to merge.
	ErrNoProposal = errors.New("no proposal available")
	// ErrMalformedProposal means an entry in the proposal cannot become a block.
	ErrMalformedProposal = errors.New("malformed proposal")
)

type Scheduler struct {
	suggester ai.Suggester
	newID     func() string
}

func New(suggester ai.Suggester) *Scheduler {
	return &Scheduler{
		suggester: suggester,
		newID:     uuid.NewString,
	}
}

// PrepareNotes returns the notes to send. An empty brain dump is replaced by
// the sample text and demo is true; callers echo it into the plan.
func PrepareNotes(brainDump string) (notes string, demo bool) {
	if strings.TrimSpace(brainDump) == "" {
		return constants.SampleBrainDump, true
	}
	return brainDump, false
}

// Suggest asks the collaborator for a proposal.
func (s *Scheduler) Suggest(ctx context.Context, notes string, existing []models.Block) (*models.Proposal, error) {
	if s.suggester == nil {
		return nil, ai.ErrNotConfigured
	}
	p, err := s.suggester.Suggest(ctx, notes, existing)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNoProposal
	}
	return p, nil
}

// Merge applies a proposal to plan. It is all-or-nothing: on error the plan
// is returned unchanged.
//
// Non-empty priorities replace the current ones, padded or truncated to the
// daily count. A present schedule, even an empty one, replaces every block;
// an absent schedule keeps them. Each block gets a fresh id. A proposal with
// neither priorities nor a schedule is treated as no proposal.
func (s *Scheduler) Merge(plan models.DayPlan, proposal *models.Proposal) (models.DayPlan, error) {
	if proposal == nil || (len(proposal.Priorities) == 0 && proposal.Schedule == nil) {
		return plan, ErrNoProposal
	}

	var blocks []models.Block
	if proposal.Schedule != nil {
		var err error
		blocks, err = s.buildBlocks(proposal.Schedule)
		if err != nil {
			return plan, err
		}
	}

	out := plan.Clone()
	if len(proposal.Priorities) > 0 {
		out.Priorities = make([]string, constants.DailyPriorities)
		copy(out.Priorities, proposal.Priorities)
	}
	if proposal.Schedule != nil {
		out.Schedule = blocks
	}
	return out, nil
}

// Generate runs the full flow: substitute sample notes, ask, merge. demo is
// true when the sample notes were used; the returned plan then carries them as
// its brain dump.
func (s *Scheduler) Generate(ctx context.Context, plan models.DayPlan) (models.DayPlan, bool, error) {
	notes, demo := PrepareNotes(plan.BrainDump)
	p, err := s.Suggest(ctx, notes, plan.Schedule)
	if err != nil {
		return plan, demo, err
	}
	merged, err := s.Merge(plan, p)
	if err != nil {
		return plan, demo, err
	}
	if demo {
		merged.BrainDump = notes
	}
	return merged, demo, nil
}

func (s *Scheduler) buildBlocks(entries []models.ProposedBlock) ([]models.Block, error) {
	blocks := make([]models.Block, 0, len(entries))
	index := make(map[string]int, len(entries))

	for i, e := range entries {
		start, err := slots.ToMinutes(strings.TrimSpace(e.StartTime))
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedProposal, i, err)
		}
		if e.Duration <= 0 {
			return nil, fmt.Errorf("%w: entry %d: duration %d", ErrMalformedProposal, i, e.Duration)
		}

		b := models.Block{
			ID:        s.newID(),
			Title:     e.Title,
			StartTime: slots.FromMinutes(start),
			Duration:  e.Duration,
			Color:     models.ParseCategory(strings.ToLower(strings.TrimSpace(e.Category))),
			Notes:     e.Reasoning,
		}

		// a later entry at the same start replaces the earlier one
		if j, ok := index[b.StartTime]; ok {
			blocks[j] = b
			continue
		}
		index[b.StartTime] = len(blocks)
		blocks = append(blocks, b)
	}
	return blocks, nil
}
