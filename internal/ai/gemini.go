package ai

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"

	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/logger"
	"github.com/julianstephens/timebox/internal/models"
	"github.com/julianstephens/timebox/internal/slots"
)

const generativeLanguageScope = "https://www.googleapis.com/auth/generative-language"

// GeminiConfig configures the Gemini client.
type GeminiConfig struct {
	APIKey    string // if empty, Google default credentials are used
	Model     string
	StartHour int
	EndHour   int
}

// Gemini is a Suggester backed by the Generative Language API.
type Gemini struct {
	svc       *generativelanguage.Service
	model     string
	startTime string
	endTime   string
}

// NewGemini builds a Gemini client. Without an API key it falls back to
// application default credentials and returns ErrNotConfigured when none
// exist.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	var opt option.ClientOption
	if cfg.APIKey != "" {
		opt = option.WithAPIKey(cfg.APIKey)
	} else {
		creds, err := google.FindDefaultCredentials(ctx, generativeLanguageScope)
		if err != nil {
			logger.Debug("No default Google credentials", "error", err)
			return nil, ErrNotConfigured
		}
		opt = option.WithTokenSource(oauth2.ReuseTokenSource(nil, creds.TokenSource))
	}

	return newGemini(ctx, cfg, opt)
}

func newGemini(ctx context.Context, cfg GeminiConfig, opts ...option.ClientOption) (*Gemini, error) {
	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create generative language client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = constants.DefaultAIModel
	}
	return &Gemini{
		svc:       svc,
		model:     model,
		startTime: slots.FromMinutes(cfg.StartHour * 60),
		endTime:   fmt.Sprintf("%02d:00", cfg.EndHour),
	}, nil
}

// Suggest asks the model for a proposal.
func (g *Gemini) Suggest(ctx context.Context, notes string, existing []models.Block) (*models.Proposal, error) {
	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{
			{
				Role:  "user",
				Parts: []*generativelanguage.Part{{Text: BuildPrompt(notes, existing, g.startTime, g.endTime)}},
			},
		},
		GenerationConfig: &generativelanguage.GenerationConfig{
			ResponseMimeType: "application/json",
		},
	}

	logger.Debug("Requesting schedule suggestion", "model", g.model, "existing_blocks", len(existing))
	resp, err := g.svc.Models.GenerateContent(modelName(g.model), req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, ErrEmptyResponse
	}
	return ParseProposal(text)
}

func modelName(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

func responseText(resp *generativelanguage.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c.Content == nil {
		return ""
	}

	var b strings.Builder
	for _, p := range c.Content.Parts {
		if p != nil {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}
