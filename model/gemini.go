// Package model provides decision models predicting the direction of a
// symbol's next daily move as a (neg, neu, pos) confidence triple.
//
// Gemini asks a generative model; Momentum derives the triple from recent
// closing prices and serves as a deterministic fallback when no API access
// is configured.
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"papertrade"
)

// DefaultGeminiModel is the model used when the configuration names none.
const DefaultGeminiModel = "gemini-2.5-flash"

const systemPrompt = `You are a quantitative analyst. For the stock symbol
given by the user, estimate the probability that its price will move down,
stay flat, or move up over the next trading day. Answer with a single JSON
object, no prose and no code fences:
{"neg": <0..1>, "neu": <0..1>, "pos": <0..1>}`

// Gemini predicts next-day movement probabilities by asking a Gemini model.
// It keeps one chat per run; prompts are independent, the chat is only a
// convenient send interface.
type Gemini struct {
	client    *genai.Client
	modelName string
	chat      *genai.Chat
}

// NewGemini creates a Gemini-backed model. Credentials come from the
// environment (GEMINI_API_KEY), as resolved by the genai client itself.
func NewGemini(ctx context.Context, modelName string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create genai client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	return &Gemini{client: client, modelName: modelName}, nil
}

// Predict implements papertrade.DecisionModel.
func (g *Gemini) Predict(ctx context.Context, symbol string) (papertrade.Probability, error) {
	if g.chat == nil {
		config := &genai.GenerateContentConfig{
			ResponseMIMEType:  "application/json",
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		}
		chat, err := g.client.Chats.Create(ctx, g.modelName, config, nil)
		if err != nil {
			return papertrade.Probability{}, fmt.Errorf("could not start prediction chat: %w", err)
		}
		g.chat = chat
	}

	resp, err := g.chat.Send(ctx, &genai.Part{Text: symbol})
	if err != nil {
		return papertrade.Probability{}, fmt.Errorf("prediction for %q failed: %w", symbol, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return papertrade.Probability{}, fmt.Errorf("empty prediction for %q", symbol)
	}
	return parsePrediction(resp.Candidates[0].Content.Parts[0].Text)
}

// parsePrediction decodes the model's JSON answer. Components are clamped to
// [0,1] rather than rejected; generative models overshoot occasionally.
func parsePrediction(text string) (papertrade.Probability, error) {
	// Tolerate prose or fences around the JSON object.
	if i, j := strings.Index(text, "{"), strings.LastIndex(text, "}"); i >= 0 && j > i {
		text = text[i : j+1]
	}
	var p papertrade.Probability
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return papertrade.Probability{}, fmt.Errorf("unparseable prediction %q: %w", text, err)
	}
	return papertrade.Probability{
		Neg: clamp01(p.Neg),
		Neu: clamp01(p.Neu),
		Pos: clamp01(p.Pos),
	}.Round(), nil
}

func clamp01(d decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(one) {
		return one
	}
	return d
}

var _ papertrade.DecisionModel = (*Gemini)(nil)
