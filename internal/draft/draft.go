// Package draft asks a language model for a first cut of the stage list from
// a free-text project description.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/generative-ai-go/genai"

	"roadmap/internal/llm"
	"roadmap/internal/roadmap"
	"roadmap/internal/schemas"
)

var (
	// ErrEmptyPrompt is returned when there is nothing to draft from.
	ErrEmptyPrompt = errors.New("describe your project before drafting")
	// ErrInFlight is returned when a draft is requested while one is pending.
	ErrInFlight = errors.New("a draft is already being generated")
)

// Temperature is the sampling temperature for drafts, a little above the
// client default so repeated drafts of one project vary.
const Temperature float32 = 0.6

// ResponseError is returned when the model answered with something that is
// not a stage list.
type ResponseError struct {
	Raw   string
	Cause error
}

func (e *ResponseError) Error() string {
	var ve *schemas.ValidationError
	if errors.As(e.Cause, &ve) {
		return "model returned an unexpected stage list: " + ve.Summary()
	}
	return fmt.Sprintf("model returned malformed JSON: %v", e.Cause)
}

func (e *ResponseError) Unwrap() error {
	return e.Cause
}

// Request is the input to a draft.
type Request struct {
	Prompt string `validate:"required"`
}

// Item is one drafted milestone.
type Item struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Completer is the model call the generator depends on.
type Completer interface {
	GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier, opts ...llm.JSONOption) (string, error)
}

// Generator turns prompts into drafted items.
type Generator struct {
	client   Completer
	tier     llm.ModelTier
	validate *validator.Validate
	schema   *schemas.Validator
}

func NewGenerator(client Completer, tier llm.ModelTier) *Generator {
	return &Generator{
		client:   client,
		tier:     tier,
		validate: validator.New(),
		schema:   schemas.Draft(),
	}
}

// ResponseSchema is the array-of-{title, description} shape requested from
// the model. Both fields are required strings.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":       {Type: genai.TypeString, Description: "Short milestone name, at most four words"},
				"description": {Type: genai.TypeString, Description: "One sentence on what the milestone delivers"},
			},
			Required: []string{"title", "description"},
		},
	}
}

// BuildPrompt embeds the user's text in the drafting instruction.
func BuildPrompt(prompt string) string {
	var sb strings.Builder
	sb.WriteString("You are planning a project roadmap.\n")
	sb.WriteString("Break the project below into 5 to 7 sequential milestones.\n")
	sb.WriteString("Return a JSON array of objects with \"title\" and \"description\" fields.\n")
	sb.WriteString("Titles must be at most four words. Descriptions must be a single sentence.\n\n")
	sb.WriteString("Project:\n")
	sb.WriteString(prompt)
	return sb.String()
}

// Generate sends one request and returns the drafted items in order. Any
// number of items, including none, is accepted.
func (g *Generator) Generate(ctx context.Context, prompt string) ([]Item, error) {
	req := Request{Prompt: strings.TrimSpace(prompt)}
	if err := g.validate.Struct(req); err != nil {
		return nil, ErrEmptyPrompt
	}

	raw, err := g.client.GenerateJSON(ctx, BuildPrompt(req.Prompt), g.tier,
		llm.WithResponseSchema(ResponseSchema()), llm.WithTemperature(Temperature))
	if err != nil {
		return nil, fmt.Errorf("draft request failed: %w", err)
	}
	raw = llm.CleanJSONBlock(raw)

	var probe any
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, &ResponseError{Raw: raw, Cause: err}
	}
	if err := g.schema.Validate([]byte(raw)); err != nil {
		return nil, &ResponseError{Raw: raw, Cause: err}
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &ResponseError{Raw: raw, Cause: err}
	}
	return items, nil
}

// ToStages gives each item a fresh id and the palette color for its
// position in the draft.
func ToStages(items []Item) []roadmap.Stage {
	stages := make([]roadmap.Stage, len(items))
	for i, item := range items {
		stages[i] = roadmap.NewStage(item.Title, item.Description, roadmap.PaletteColor(i))
	}
	return stages
}

// Apply replaces the editor's stages with the draft as one undo step. The
// header is kept.
func Apply(editor *roadmap.Editor, items []Item) {
	editor.ReplaceStages(ToStages(items))
}
