package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// dispatchState is the fallback decision state. A request walks
// tryPrimary -> trySecondary -> exhausted, advancing on failure;
// exhausted emits the diagnostic reply instead of raising.
type dispatchState int

const (
	tryPrimary dispatchState = iota
	trySecondary
	exhausted
)

// Dispatcher sends a (query, context) pair to the primary provider and
// falls back to the secondary on any failure class. There is no retry
// of a failed provider within a request.
type Dispatcher struct {
	primary   Provider
	secondary Provider

	// OnNotice, when set, receives transient user-visible notices such
	// as the provider-switch message.
	OnNotice func(string)
}

// NewDispatcher builds a dispatcher. Either provider may be nil when
// its API key is not configured.
func NewDispatcher(primary, secondary Provider) *Dispatcher {
	return &Dispatcher{primary: primary, secondary: secondary}
}

// Configured reports whether at least one provider is available.
func (d *Dispatcher) Configured() bool {
	return d.primary != nil || d.secondary != nil
}

// Send dispatches the request and returns the response stream. The
// stream always terminates cleanly: provider exhaustion produces the
// diagnostic message as the reply rather than an error, so the session
// stays usable for the next query.
func (d *Dispatcher) Send(ctx context.Context, systemPrompt, contextData, query string) *Stream {
	userPrompt := fmt.Sprintf("CONTEXT DATA: %s\n\nUSER QUERY: %s", contextData, query)

	out := newStream()
	go d.run(ctx, systemPrompt, userPrompt, out)
	return out
}

func (d *Dispatcher) run(ctx context.Context, systemPrompt, userPrompt string, out *Stream) {
	state := tryPrimary
	var lastErr error

	for {
		var provider Provider
		switch state {
		case tryPrimary:
			provider = d.primary
		case trySecondary:
			provider = d.secondary
		case exhausted:
			out.push(d.diagnostic(lastErr))
			out.finish(nil)
			return
		}

		if provider == nil {
			state++
			continue
		}

		emitted, err := d.relay(ctx, provider, systemPrompt, userPrompt, out)
		if err == nil {
			out.finish(nil)
			return
		}

		// A failure after content already reached the user ends the
		// stream with the partial reply; switching providers mid-answer
		// would splice two different responses together.
		if emitted {
			slog.Warn("provider failed mid-stream, keeping partial reply",
				"provider", provider.Name(), "error", err)
			out.finish(nil)
			return
		}

		class := Classify(err)
		lastErr = err
		slog.Warn("provider unavailable", "provider", provider.Name(),
			"class", class.String(), "error", err)
		if state == tryPrimary && d.secondary != nil {
			d.notice(fmt.Sprintf("%s %s. Switching to %s...",
				provider.Name(), class.String(), d.secondary.Name()))
		}
		state++
	}
}

// relay forwards one provider's stream to out, reporting whether any
// content frame was forwarded before the terminal frame.
func (d *Dispatcher) relay(ctx context.Context, p Provider, systemPrompt, userPrompt string, out *Stream) (bool, error) {
	emitted := false
	for delta := range p.Stream(ctx, systemPrompt, userPrompt).Deltas() {
		if delta.Done {
			return emitted, delta.Err
		}
		out.push(delta.Content)
		emitted = true
	}
	return emitted, nil
}

func (d *Dispatcher) notice(msg string) {
	if d.OnNotice != nil {
		d.OnNotice(msg)
	}
}

// diagnostic builds the structured reply returned when every provider
// failed or none is configured.
func (d *Dispatcher) diagnostic(lastErr error) string {
	if !d.Configured() {
		return `AI service unavailable: no API keys configured.

Setup:
1. Create a .env file in the working directory
2. Add MISTRAL_API_KEY=... (primary) and/or GROQ_API_KEY=... (fallback)
3. Get keys at https://console.mistral.ai/ or https://console.groq.com/
4. Restart floatchat`
	}

	detail := "unknown error"
	if lastErr != nil {
		detail = lastErr.Error()
	}
	return fmt.Sprintf(`AI service unavailable: all configured providers failed.

Last error: %s

Troubleshooting:
- Check your internet connection
- Verify the API keys in your .env file
- Try again in a few moments`, detail)
}
