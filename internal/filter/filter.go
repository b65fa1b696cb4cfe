// Package filter selects captured requests with a JavaScript predicate.
package filter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/artpar/hooklens/internal/core"
	"github.com/dop251/goja"
)

// Filter is a compiled predicate such as `req.method == "POST"`.
// It is safe for concurrent use.
type Filter struct {
	mu      sync.Mutex
	source  string
	program *goja.Program
	runtime *goja.Runtime
}

// Compile parses expr. An empty expression matches everything.
func Compile(expr string) (*Filter, error) {
	expr = strings.TrimSpace(expr)
	f := &Filter{source: expr}
	if expr == "" {
		return f, nil
	}

	program, err := goja.Compile("filter", "("+expr+"\n)", true)
	if err != nil {
		return nil, fmt.Errorf("syntax error: %w", err)
	}
	f.program = program
	f.runtime = goja.New()
	f.runtime.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	return f, nil
}

// Source returns the expression the filter was compiled from.
func (f *Filter) Source() string {
	return f.source
}

// Empty reports whether the filter matches everything.
func (f *Filter) Empty() bool {
	return f.program == nil
}

// Match evaluates the predicate against req.
func (f *Filter) Match(ctx context.Context, req core.CapturedRequest) (bool, error) {
	if f.program == nil {
		return true, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			f.runtime.Interrupt("context cancelled")
		case <-done:
		}
	}()

	f.runtime.ClearInterrupt()
	if err := f.runtime.Set("req", requestObject(req)); err != nil {
		return false, err
	}

	value, err := f.runtime.RunProgram(f.program)
	if err != nil {
		if exception, ok := err.(*goja.InterruptedError); ok {
			return false, fmt.Errorf("execution interrupted: %v", exception.Value())
		}
		return false, fmt.Errorf("runtime error: %w", err)
	}
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return false, nil
	}
	return value.ToBoolean(), nil
}

// Apply returns the requests that match, preserving order. A runtime error
// on any request aborts the whole filter.
func (f *Filter) Apply(ctx context.Context, reqs []core.CapturedRequest) ([]core.CapturedRequest, error) {
	if f.program == nil {
		return reqs, nil
	}

	out := make([]core.CapturedRequest, 0, len(reqs))
	for _, r := range reqs {
		ok, err := f.Match(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", r.ID, err)
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// ApplyWithTimeout runs Apply under a deadline.
func (f *Filter) ApplyWithTimeout(reqs []core.CapturedRequest, timeout time.Duration) ([]core.CapturedRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return f.Apply(ctx, reqs)
}

func requestObject(req core.CapturedRequest) map[string]any {
	var responseTime any
	if req.ResponseTime != nil {
		responseTime = *req.ResponseTime
	}
	return map[string]any{
		"id":            req.ID,
		"method":        req.Method,
		"ip_address":    req.IPAddress,
		"user_agent":    req.UserAgent,
		"response_time": responseTime,
		"created_at":    req.CreatedAt.Format(time.RFC3339),
		"headers":       string(req.Headers),
		"body":          string(req.Body),
		"query_params":  string(req.QueryParams),
		"json": map[string]any{
			"headers":      parseJSON(string(req.Headers)),
			"body":         parseJSON(string(req.Body)),
			"query_params": parseJSON(string(req.QueryParams)),
		},
	}
}

func parseJSON(text string) any {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil
	}
	return v
}
