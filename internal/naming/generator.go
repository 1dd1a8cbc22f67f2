package naming

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"namecraft/backend/internal/ai"
	"namecraft/backend/internal/util"
)

// DefaultCount is used when a request does not specify how many names it wants.
const DefaultCount = 12

// Request describes one generation.
type Request struct {
	Description string
	Industry    string
	Style       string
	Count       int
}

// Result is the outcome of a generation. Names is never nil and holds at most
// Request.Count distinct entries.
type Result struct {
	Names     []string
	Source    Source
	SessionID string
}

// Observer receives generation telemetry.
type Observer interface {
	ObserveGeneration(source string, elapsed time.Duration)
	ObserveAICall(outcome string)
}

// Options tune a Generator.
type Options struct {
	Logger       logrus.FieldLogger
	Observer     Observer
	SystemPrompt string
}

// Generator orchestrates prompt building, the AI call, parsing and fallback.
type Generator struct {
	completer ai.Completer
	logger    logrus.FieldLogger
	observer  Observer
	system    string
}

// NewGenerator wires a Generator. A nil completer makes every generation use
// the fallback pool.
func NewGenerator(completer ai.Completer, opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	system := opts.SystemPrompt
	if system == "" {
		system = SystemPrompt
	}
	return &Generator{
		completer: completer,
		logger:    logger,
		observer:  opts.Observer,
		system:    system,
	}
}

// Generate always returns a result; upstream and parse failures are recovered
// locally and reported through Result.Source.
func (g *Generator) Generate(ctx context.Context, req Request) Result {
	timer := util.StartTimer()
	sessionID := "name-gen-" + uuid.NewString()
	entry := g.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"count":      req.Count,
		"industry":   req.Industry,
		"style":      req.Style,
	})

	result := g.generate(ctx, sessionID, req, entry)
	result.SessionID = sessionID

	if g.observer != nil {
		g.observer.ObserveGeneration(string(result.Source), timer.Elapsed())
	}
	entry.WithFields(logrus.Fields{
		"source":     result.Source,
		"generated":  len(result.Names),
		"elapsed_ms": timer.ElapsedMs(),
	}).Info("names generated")
	return result
}

func (g *Generator) generate(ctx context.Context, sessionID string, req Request, entry logrus.FieldLogger) Result {
	if req.Count <= 0 {
		return Result{Names: []string{}, Source: SourceFallback}
	}
	if g.completer == nil {
		entry.Debug("no ai completer configured; using fallback names")
		return fallbackResult(req.Count)
	}

	raw, err := g.completer.Complete(ctx, ai.CompletionRequest{
		SessionID: sessionID,
		System:    g.system,
		Prompt:    BuildPrompt(req.Description, req.Industry, req.Style, req.Count),
	})
	if err != nil {
		g.observeAICall("error")
		entry.WithError(err).Warn("ai completion failed; using fallback names")
		return fallbackResult(req.Count)
	}
	g.observeAICall("ok")

	names, source := ParseNames(raw, req.Count)
	if source == SourceText {
		entry.Info("ai response was not a JSON array; extracted names from text")
	}
	if len(names) == 0 {
		entry.Warn("ai response yielded no usable names; using fallback names")
		return fallbackResult(req.Count)
	}
	return Result{Names: names, Source: source}
}

func (g *Generator) observeAICall(outcome string) {
	if g.observer != nil {
		g.observer.ObserveAICall(outcome)
	}
}

func fallbackResult(count int) Result {
	return Result{Names: FallbackNames(count), Source: SourceFallback}
}
