package generator

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// TopicRequiredMessage is shown when a submission has no main topic.
const TopicRequiredMessage = "Main Topic / Primary Keyword is a required field."

// ErrTopicRequired is logged when a submission has no main topic.
var ErrTopicRequired = errors.New("main topic / primary keyword is required")

// BackendFailurePrefix starts every message for a failed backend call.
const BackendFailurePrefix = "An error occurred while generating the content brief: "

// Generator validates a request, renders the prompt and calls the backend.
// It keeps no state between calls.
type Generator struct {
	llm     LLMClient
	tmpl    *Template
	timeout time.Duration
	logger  *zap.Logger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithTemplate replaces the embedded instruction document.
func WithTemplate(t *Template) Option {
	return func(g *Generator) { g.tmpl = t }
}

// WithTimeout bounds each backend call. Zero leaves it to the backend.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) { g.timeout = d }
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

func NewGenerator(llm LLMClient, opts ...Option) (*Generator, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	g := &Generator{llm: llm, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	if g.tmpl == nil {
		g.tmpl = DefaultTemplate()
	}
	return g, nil
}

// Generate produces exactly one result per call. The returned error is
// non-nil only for a *TemplateError, which callers must treat as fatal;
// user and backend problems are reported through a Failure result.
func (g *Generator) Generate(ctx context.Context, req BriefRequest) (BriefResult, error) {
	if !req.HasTopic() {
		g.logger.Info("brief request rejected", zap.Error(ErrTopicRequired))
		return Failure(TopicRequiredMessage), nil
	}

	prompt, err := g.tmpl.Render(req)
	if err != nil {
		g.logger.Error("prompt template failed", zap.Error(err))
		return BriefResult{}, err
	}
	g.logger.Debug("prompt rendered",
		zap.String("topic", req.Topic),
		zap.Int("word_count", req.WordCount),
		zap.Int("prompt_len", len(prompt)),
	)

	// An issued backend call runs to completion; only the timeout stops it.
	ctx = context.WithoutCancel(ctx)
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.llm.Complete(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		g.logger.Warn("backend call failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return Failure(BackendFailurePrefix + err.Error()), nil
	}
	g.logger.Info("brief generated", zap.Duration("elapsed", elapsed), zap.Int("brief_len", len(text)))
	return Success(text), nil
}
