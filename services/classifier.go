package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"blindmatch_server/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Classifier is the remote fallback for messages the local patterns could not
// decide. Implementations must be safe for concurrent use.
type Classifier interface {
	Classify(ctx context.Context, text string) (*models.ClassifierVerdict, error)
}

const classifierSystemInstruction = `You analyze chat messages from an anonymous dating app and decide whether a message reveals the sender's real-world identity.

Identity-revealing content includes: real names, phone numbers (digits or spelled out in any language), email addresses, social media handles or profile links, home or work addresses, employer names, school names, and URLs pointing to personal profiles.

Content that is merely flirtatious, sexual, vulgar, or offensive is NOT identity-revealing and must not be flagged. Only flag what would let the other person find the sender outside the app.

Respond with a single JSON object:
{"flagged": bool, "confidence": number between 0 and 1, "categories": ["phone"|"email"|"handle"|"name"|"address"|"workplace"|"school"|"url"|"other", ...], "explanation": "one short sentence"}`

// GeminiClassifier asks a Gemini model whether a message leaks identity.
type GeminiClassifier struct {
	model  *genai.GenerativeModel
	client *genai.Client
	logger *zap.Logger
}

// NewGeminiClassifier dials the Gemini API and configures the model for
// strict JSON output.
func NewGeminiClassifier(ctx context.Context, apiKey, modelName string, logger *zap.Logger) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(classifierSystemInstruction)},
	}
	model.ResponseMIMEType = "application/json"
	temperature := float32(0.0)
	model.Temperature = &temperature

	return &GeminiClassifier{model: model, client: client, logger: logger}, nil
}

// Close releases the underlying API client.
func (c *GeminiClassifier) Close() error {
	return c.client.Close()
}

// Classify sends the message text for analysis and parses the JSON verdict.
func (c *GeminiClassifier) Classify(ctx context.Context, text string) (*models.ClassifierVerdict, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			raw.WriteString(string(t))
		}
	}

	payload := stripJSONFences(raw.String())
	var verdict models.ClassifierVerdict
	if err := json.Unmarshal([]byte(payload), &verdict); err != nil {
		c.logger.Debug("unparseable classifier response", zap.String("body", payload))
		return nil, fmt.Errorf("failed to parse classifier response: %w", err)
	}
	if verdict.Confidence < 0 {
		verdict.Confidence = 0
	}
	if verdict.Confidence > 1 {
		verdict.Confidence = 1
	}
	return &verdict, nil
}

// stripJSONFences removes a surrounding markdown code fence when the model
// wraps its JSON in one despite the response MIME type.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}
