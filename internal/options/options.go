// Package options serves the dropdown lists (states, cities, procedure codes)
// shared by every view.
package options

import (
	"context"
	"unicode/utf8"

	"github.com/gyeh/healthnav/internal/cache"
	"github.com/gyeh/healthnav/internal/model"
	"github.com/gyeh/healthnav/internal/query"
	"github.com/gyeh/healthnav/internal/warehouse"
)

const descriptionLimit = 50

// Provider loads option lists through the cache. A failed load returns the
// error with an empty list and is retried on the next call.
type Provider struct {
	builder *query.Builder
	exec    *warehouse.Executor
	cache   *cache.Cache[*warehouse.Table]
}

func NewProvider(b *query.Builder, exec *warehouse.Executor, c *cache.Cache[*warehouse.Table]) *Provider {
	return &Provider{builder: b, exec: exec, cache: c}
}

func (p *Provider) load(ctx context.Context, st query.Statement) (*warehouse.Table, error) {
	return p.cache.Get(ctx, st.Signature(), func(ctx context.Context) (*warehouse.Table, error) {
		return p.exec.Run(ctx, st)
	})
}

// States lists every state with at least one hospital.
func (p *Provider) States(ctx context.Context) ([]string, error) {
	t, err := p.load(ctx, p.builder.States())
	if err != nil {
		return []string{}, err
	}
	return t.Strings("state"), nil
}

// Cities lists cities, narrowed to state unless it is empty.
func (p *Provider) Cities(ctx context.Context, state string) ([]string, error) {
	t, err := p.load(ctx, p.builder.Cities(state))
	if err != nil {
		return []string{}, err
	}
	return t.Strings("city"), nil
}

// Codes lists every service code with its dropdown label.
func (p *Provider) Codes(ctx context.Context) ([]model.CodeOption, error) {
	t, err := p.load(ctx, p.builder.Codes())
	if err != nil {
		return []model.CodeOption{}, err
	}
	out := make([]model.CodeOption, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		code, desc := t.String(i, "code"), t.String(i, "description")
		out = append(out, model.CodeOption{Code: code, Description: desc, Label: CodeLabel(code, desc)})
	}
	return out, nil
}

// CodeLabel renders "CODE - DESCRIPTION", cutting descriptions longer than
// 50 characters to their first 50 followed by "...".
func CodeLabel(code, description string) string {
	if utf8.RuneCountInString(description) > descriptionLimit {
		description = string([]rune(description)[:descriptionLimit]) + "..."
	}
	return code + " - " + description
}
