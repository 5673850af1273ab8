// Package query builds the parameterized SQL statements issued by the views.
// User input only ever reaches the database as bound $n arguments; table
// identifiers come from configuration and are quoted with pgx.Identifier.
package query

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/gyeh/healthnav/internal/config"
)

// Statement is a SQL string plus its positional arguments.
type Statement struct {
	Name string
	SQL  string
	Args []any
}

// Signature identifies a statement by name, text and argument values. It is
// stable across calls and safe to log.
func (s Statement) Signature() string {
	h := sha256.New()
	h.Write([]byte(s.SQL))
	for _, a := range s.Args {
		h.Write([]byte{0})
		fmt.Fprintf(h, "%T:%v", a, a)
	}
	return s.Name + ":" + hex.EncodeToString(h.Sum(nil))[:16]
}

// args accumulates positional parameters and hands out their placeholders.
type args struct {
	vals []any
}

func (a *args) add(v any) string {
	a.vals = append(a.vals, v)
	return fmt.Sprintf("$%d", len(a.vals))
}

// Builder renders statements against a fixed set of warehouse tables.
type Builder struct {
	master      string
	hospital    string
	provider    string
	plan        string
	serviceCode string
}

// NewBuilder quotes the configured table identifiers once up front.
func NewBuilder(t config.Tables) *Builder {
	return &Builder{
		master:      quoteTable(t.Master),
		hospital:    quoteTable(t.Hospital),
		provider:    quoteTable(t.Provider),
		plan:        quoteTable(t.Plan),
		serviceCode: quoteTable(t.ServiceCode),
	}
}

func quoteTable(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}
