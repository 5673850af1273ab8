package warehouse

import (
	"context"
	"strings"
	"sync"
)

// Fake is an in-memory Warehouse for tests. Responses are matched by a
// substring of the SQL text; the first match in registration order wins.
type Fake struct {
	mu        sync.Mutex
	responses []fakeResponse
	Calls     []FakeCall
}

// FakeCall records one executed statement.
type FakeCall struct {
	SQL  string
	Args []any
}

type fakeResponse struct {
	match string
	table *Table
	err   error
}

// On registers the table returned for statements containing match.
func (f *Fake) On(match string, t *Table) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, fakeResponse{match: match, table: t})
	return f
}

// Fail registers an error returned for statements containing match.
func (f *Fake) Fail(match string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, fakeResponse{match: match, err: err})
	return f
}

func (f *Fake) Query(_ context.Context, sql string, args ...any) (*Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, FakeCall{SQL: sql, Args: args})
	for _, r := range f.responses {
		if strings.Contains(sql, r.match) {
			if r.err != nil {
				return nil, r.err
			}
			return r.table, nil
		}
	}
	return Empty(), nil
}

// CallCount returns how many statements were executed.
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
