package recommendation

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Recommendation is the structured analysis returned to the caller as-is.
type Recommendation struct {
	Summary        string   `json:"summary"`
	Pros           []string `json:"pros"`
	Cons           []string `json:"cons"`
	Recommendation string   `json:"recommendation"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"response_mime_type"`
	ResponseSchema   schema `json:"response_schema"`
}

type schema struct {
	Type       string            `json:"type"`
	Properties map[string]schema `json:"properties,omitempty"`
	Items      *schema           `json:"items,omitempty"`
	Required   []string          `json:"required,omitempty"`
}

var (
	stringSchema      = schema{Type: "string"}
	stringArraySchema = schema{Type: "array", Items: &stringSchema}

	recommendationSchema = schema{
		Type: "object",
		Properties: map[string]schema{
			"summary":        stringSchema,
			"pros":           stringArraySchema,
			"cons":           stringArraySchema,
			"recommendation": stringSchema,
		},
		Required: []string{"summary", "pros", "cons", "recommendation"},
	}
)

func newGenerateRequest(prompt string) generateRequest {
	return generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   recommendationSchema,
		},
	}
}

// Envelope returned by generateContent. Pointers mark the levels that may be
// missing so each one can be reported on its own.
type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content *candidateContent `json:"content"`
}

type candidateContent struct {
	Parts []candidatePart `json:"parts"`
}

type candidatePart struct {
	Text *string `json:"text"`
}

type payload struct {
	Summary        *string   `json:"summary"`
	Pros           *[]string `json:"pros"`
	Cons           *[]string `json:"cons"`
	Recommendation *string   `json:"recommendation"`
}

var (
	errNoCandidates = errors.New("response has no candidates")
	errNoContent    = errors.New("candidate has no content")
	errNoParts      = errors.New("content has no parts")
	errNoText       = errors.New("part has no text")
)

// decodeRecommendation walks the envelope level by level and parses the
// first part's text as the four-field payload. Errors are for the log only.
func decodeRecommendation(raw []byte) (*Recommendation, error) {
	var envelope generateResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	if len(envelope.Candidates) == 0 {
		return nil, errNoCandidates
	}
	c := envelope.Candidates[0].Content
	if c == nil {
		return nil, errNoContent
	}
	if len(c.Parts) == 0 {
		return nil, errNoParts
	}
	text := c.Parts[0].Text
	if text == nil {
		return nil, errNoText
	}

	var p payload
	if err := json.Unmarshal([]byte(*text), &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	switch {
	case p.Summary == nil:
		return nil, errors.New("payload missing summary")
	case p.Pros == nil:
		return nil, errors.New("payload missing pros")
	case p.Cons == nil:
		return nil, errors.New("payload missing cons")
	case p.Recommendation == nil:
		return nil, errors.New("payload missing recommendation")
	}

	return &Recommendation{
		Summary:        *p.Summary,
		Pros:           *p.Pros,
		Cons:           *p.Cons,
		Recommendation: *p.Recommendation,
	}, nil
}
