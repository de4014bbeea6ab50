package llm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// tracedLLM wraps each request in an OpenTelemetry span carrying the
// model, prompt size, and token usage.
type tracedLLM struct {
	next        CoreLLM
	serviceName string
}

// TracingMiddleware adds distributed tracing to each outbound request.
// Spans are emitted through the globally configured tracer provider.
func TracingMiddleware(serviceName string) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &tracedLLM{next: next, serviceName: serviceName}
	}
}

func (t *tracedLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	tracer := otel.Tracer(t.serviceName)
	ctx, span := tracer.Start(ctx, "llm.request")
	defer span.End()

	model := t.next.GetModel()
	if m, ok := opts["model"].(string); ok && m != "" {
		model = m
	}
	span.SetAttributes(
		attribute.String("llm.model", model),
		attribute.Int("llm.prompt.length", len(prompt)),
	)

	response, tokensIn, tokensOut, err := t.next.DoRequest(ctx, prompt, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return response, tokensIn, tokensOut, err
	}

	span.SetAttributes(
		attribute.Int("llm.tokens.input", tokensIn),
		attribute.Int("llm.tokens.output", tokensOut),
	)
	return response, tokensIn, tokensOut, nil
}

func (t *tracedLLM) GetModel() string  { return t.next.GetModel() }
func (t *tracedLLM) SetModel(m string) { t.next.SetModel(m) }
