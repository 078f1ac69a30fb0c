// Package ai talks to the schedule-suggesting collaborator.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/timebox/internal/models"
)

var (
	// ErrUnparsable means the collaborator answered with something that is not
	// a proposal.
	ErrUnparsable = errors.New("unparsable suggestion response")
	// ErrNotConfigured means no credentials were found for the collaborator.
	ErrNotConfigured = errors.New("AI collaborator is not configured")
	// ErrEmptyResponse means the collaborator returned no candidates.
	ErrEmptyResponse = errors.New("empty suggestion response")
)

// Suggester proposes priorities and a schedule from free-text notes. The
// existing blocks are context only.
type Suggester interface {
	Suggest(ctx context.Context, notes string, existing []models.Block) (*models.Proposal, error)
}

// SuggesterFunc adapts a plain function to Suggester.
type SuggesterFunc func(ctx context.Context, notes string, existing []models.Block) (*models.Proposal, error)

func (f SuggesterFunc) Suggest(ctx context.Context, notes string, existing []models.Block) (*models.Proposal, error) {
	return f(ctx, notes, existing)
}

// ParseProposal decodes a JSON proposal, tolerating a surrounding markdown
// code fence.
func ParseProposal(text string) (*models.Proposal, error) {
	body := stripFence(strings.TrimSpace(text))
	if body == "" {
		return nil, ErrUnparsable
	}

	var p models.Proposal
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	return &p, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag, e.g. ```json
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// BuildPrompt renders the instruction sent to the model.
func BuildPrompt(notes string, existing []models.Block, startTime, endTime string) string {
	var b strings.Builder
	b.WriteString("You are a strict but encouraging coach managing my time.\n")
	b.WriteString("Here is my brain dump of tasks:\n")
	fmt.Fprintf(&b, "%q\n\n", notes)
	b.WriteString("Organize my day:\n")
	b.WriteString("1. Extract the top 3 priorities.\n")
	b.WriteString("2. Create a timeboxed schedule.\n\n")
	b.WriteString("Constraints:\n")
	fmt.Fprintf(&b, "- Start time: %s\n", startTime)
	fmt.Fprintf(&b, "- End time: %s\n", endTime)
	b.WriteString("- Use 24h HH:MM start times on the hour or half hour.\n")
	b.WriteString("- Duration in minutes, a multiple of 30.\n")
	fmt.Fprintf(&b, "- Categorize each block as one of: %s.\n", strings.Join(categoryNames(), ", "))
	b.WriteString("- Be efficient. No wasted time.\n")

	if len(existing) > 0 {
		b.WriteString("\nCurrently scheduled:\n")
		for _, blk := range existing {
			fmt.Fprintf(&b, "- %s %s (%d min)\n", blk.StartTime, blk.Title, blk.Duration)
		}
	}

	b.WriteString("\nRespond only with JSON of the form ")
	b.WriteString(`{"priorities": ["..."], "schedule": [{"startTime": "HH:MM", "title": "...", "duration": 60, "category": "work", "reasoning": "..."}]}`)
	b.WriteString("\n")
	return b.String()
}

func categoryNames() []string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return names
}
