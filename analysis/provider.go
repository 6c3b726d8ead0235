// Package analysis turns a ticker into a structured technical-analysis
// recommendation by prompting a text generator and parsing its reply.
package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/phuslu/log"

	"stock-sector-analyzer/llm"
	"stock-sector-analyzer/models"
)

// Provider produces an analysis for a ticker or fails with *Error
type Provider interface {
	Analyze(ctx context.Context, ticker string) (*models.AnalysisResult, error)
}

// LLMProvider prompts a generator with the MACD+RSI analyst prompt
type LLMProvider struct {
	generator llm.Generator
	webSearch bool
}

// NewLLMProvider creates a provider backed by generator
func NewLLMProvider(generator llm.Generator, webSearch bool) *LLMProvider {
	return &LLMProvider{
		generator: generator,
		webSearch: webSearch,
	}
}

// Analyze implements Provider
func (p *LLMProvider) Analyze(ctx context.Context, ticker string) (*models.AnalysisResult, error) {
	prompt := llm.FormatTechnicalAnalysisPrompt(ticker, p.webSearch)

	start := time.Now()
	text, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Str("ticker", ticker).Str("model", p.generator.Model()).Msg("Analysis request failed")
		return nil, &Error{Ticker: ticker, Kind: KindNetwork, Err: err}
	}

	result, err := ParseResponse(text)
	if err != nil {
		var aerr *Error
		if errors.As(err, &aerr) {
			aerr.Ticker = ticker
		}
		log.Warn().Err(err).Str("ticker", ticker).Msg("Unusable analysis response")
		return nil, err
	}

	log.Debug().
		Str("ticker", ticker).
		Str("recommendation", string(result.Recommendation)).
		Dur("took", time.Since(start)).
		Msg("Analysis completed")
	return result, nil
}
