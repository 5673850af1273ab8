package options

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/healthnav/internal/cache"
	"github.com/gyeh/healthnav/internal/config"
	"github.com/gyeh/healthnav/internal/query"
	"github.com/gyeh/healthnav/internal/warehouse"
)

func newTestProvider(fake *warehouse.Fake) *Provider {
	log := zerolog.Nop()
	return NewProvider(
		query.NewBuilder(config.DefaultTables()),
		warehouse.NewExecutor(fake, log),
		cache.New[*warehouse.Table](16, time.Hour, log),
	)
}

func TestStates_Cached(t *testing.T) {
	fake := (&warehouse.Fake{}).On("SELECT DISTINCT state",
		warehouse.NewTable([]string{"state"}, [][]any{{"IL"}, {"NC"}, {"NV"}}))
	p := newTestProvider(fake)

	for i := 0; i < 3; i++ {
		states, err := p.States(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if strings.Join(states, ",") != "IL,NC,NV" {
			t.Errorf("states = %v", states)
		}
	}
	if fake.CallCount() != 1 {
		t.Errorf("warehouse queried %d times, want 1", fake.CallCount())
	}
}

func TestCities_KeyedByState(t *testing.T) {
	fake := (&warehouse.Fake{}).On("SELECT DISTINCT city",
		warehouse.NewTable([]string{"city"}, [][]any{{"Las Vegas"}, {"Reno"}}))
	p := newTestProvider(fake)
	ctx := context.Background()

	if _, err := p.Cities(ctx, "NV"); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Cities(ctx, "IL"); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Cities(ctx, "NV"); err != nil {
		t.Fatal(err)
	}
	if fake.CallCount() != 2 {
		t.Errorf("expected one query per state, got %d", fake.CallCount())
	}
}

func TestStates_FailureNotCached(t *testing.T) {
	fake := (&warehouse.Fake{}).Fail("SELECT DISTINCT state", errors.New("timeout"))
	p := newTestProvider(fake)

	states, err := p.States(context.Background())
	if err == nil || !warehouse.IsQueryError(err) {
		t.Fatalf("expected query error, got %v", err)
	}
	if states == nil || len(states) != 0 {
		t.Errorf("expected empty list, got %v", states)
	}
	_, _ = p.States(context.Background())
	if fake.CallCount() != 2 {
		t.Errorf("failure must be retried, calls = %d", fake.CallCount())
	}
}

func TestCodes_Labels(t *testing.T) {
	long := strings.Repeat("x", 60)
	fake := (&warehouse.Fake{}).On("SELECT DISTINCT code",
		warehouse.NewTable([]string{"code", "description"}, [][]any{
			{"80053", "Comprehensive metabolic panel"},
			{"99213", long},
		}))
	p := newTestProvider(fake)

	codes, err := p.Codes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(codes) != 2 {
		t.Fatalf("codes = %+v", codes)
	}
	if codes[0].Label != "80053 - Comprehensive metabolic panel" {
		t.Errorf("label = %q", codes[0].Label)
	}
	if want := "99213 - " + strings.Repeat("x", 50) + "..."; codes[1].Label != want {
		t.Errorf("label = %q, want %q", codes[1].Label, want)
	}
}

func TestCodeLabel_ExactlyFifty(t *testing.T) {
	desc := strings.Repeat("y", 50)
	if got := CodeLabel("A", desc); got != "A - "+desc {
		t.Errorf("50 chars must not be truncated: %q", got)
	}
}
