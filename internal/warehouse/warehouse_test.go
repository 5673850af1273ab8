package warehouse

import (
	"bytes"
	"context"
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/gyeh/healthnav/internal/query"
)

func TestTableAccessors(t *testing.T) {
	tbl := NewTable(
		[]string{"HOSPITAL_NAME", "price", "n", "ratio", "missing"},
		[][]any{
			{"Sunrise", 125.5, int64(3), pgtype.Numeric{Int: big.NewInt(1250), Exp: -2, Valid: true}, nil},
			{nil, math.NaN(), int32(7), "2.5", nil},
		},
	)

	if tbl.Len() != 2 || tbl.IsEmpty() {
		t.Fatalf("Len = %d", tbl.Len())
	}
	if !tbl.Has("hospital_name") || !tbl.Has("HOSPITAL_NAME") || tbl.Has("other") {
		t.Error("Has should be case-insensitive and exact")
	}
	if got := tbl.String(0, "hospital_name"); got != "Sunrise" {
		t.Errorf("String = %q", got)
	}
	if got := tbl.String(1, "hospital_name"); got != "" {
		t.Errorf("NULL string = %q", got)
	}
	if got := tbl.Float(0, "price"); !got.Valid || got.Float64 != 125.5 {
		t.Errorf("Float = %+v", got)
	}
	if got := tbl.Float(1, "price"); got.Valid {
		t.Errorf("NaN should be undefined, got %+v", got)
	}
	if got := tbl.Float(0, "ratio"); !got.Valid || got.Float64 != 12.5 {
		t.Errorf("numeric Float = %+v", got)
	}
	if got := tbl.Float(1, "ratio"); !got.Valid || got.Float64 != 2.5 {
		t.Errorf("string Float = %+v", got)
	}
	if got := tbl.Float(0, "missing"); got.Valid {
		t.Error("NULL should be undefined")
	}
	if tbl.Int(0, "n") != 3 || tbl.Int(1, "n") != 7 {
		t.Errorf("Int = %d, %d", tbl.Int(0, "n"), tbl.Int(1, "n"))
	}
	if got := tbl.Value(5, "n"); got != nil {
		t.Errorf("out of range Value = %v", got)
	}
	if got := tbl.Strings("hospital_name"); len(got) != 2 || got[0] != "Sunrise" {
		t.Errorf("Strings = %v", got)
	}
}

func TestNilAndEmptyTable(t *testing.T) {
	var tbl *Table
	if tbl.Len() != 0 || !tbl.IsEmpty() || tbl.Has("x") {
		t.Error("nil table should behave as empty")
	}
	e := Empty()
	if e.Len() != 0 || len(e.Columns) != 0 {
		t.Errorf("Empty() = %+v", e)
	}
}

func TestExecutor_Success(t *testing.T) {
	fake := (&Fake{}).On("FROM states", NewTable([]string{"state"}, [][]any{{"NV"}, {"IL"}}))
	var buf bytes.Buffer
	ex := NewExecutor(fake, zerolog.New(&buf).Level(zerolog.DebugLevel))

	tbl, err := ex.Run(context.Background(), query.Statement{Name: "states", SQL: "SELECT state FROM states"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tbl.Len() != 2 {
		t.Errorf("rows = %d", tbl.Len())
	}
	if !strings.Contains(buf.String(), `"rows":2`) {
		t.Errorf("expected debug log with row count, got %s", buf.String())
	}
}

func TestExecutor_FailureReturnsEmptyTable(t *testing.T) {
	boom := errors.New("connection refused")
	fake := (&Fake{}).Fail("SELECT", boom)
	var buf bytes.Buffer
	ex := NewExecutor(fake, zerolog.New(&buf))

	st := query.Statement{Name: "cities", SQL: "SELECT city FROM h WHERE state = $1", Args: []any{"NV"}}
	tbl, err := ex.Run(context.Background(), st)
	if tbl == nil || !tbl.IsEmpty() {
		t.Fatalf("expected empty non-nil table, got %+v", tbl)
	}
	if !IsQueryError(err) || !errors.Is(err, boom) {
		t.Fatalf("expected QueryError wrapping boom, got %v", err)
	}
	var qe *QueryError
	errors.As(err, &qe)
	if qe.Signature != st.Signature() {
		t.Errorf("signature = %s, want %s", qe.Signature, st.Signature())
	}
	if strings.Contains(buf.String(), `"NV"`) {
		t.Errorf("bound values must not be logged: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "query failed") {
		t.Errorf("expected error log, got %s", buf.String())
	}
}

func TestExecutor_NilTableFromWarehouse(t *testing.T) {
	fake := (&Fake{}).On("SELECT", nil)
	ex := NewExecutor(fake, zerolog.Nop())
	tbl, err := ex.Run(context.Background(), query.Statement{Name: "x", SQL: "SELECT 1"})
	if err != nil || tbl == nil {
		t.Fatalf("expected empty table, got %v, %v", tbl, err)
	}
}

func TestFake_RecordsCalls(t *testing.T) {
	fake := &Fake{}
	_, _ = fake.Query(context.Background(), "SELECT 1", 42)
	if fake.CallCount() != 1 || fake.Calls[0].Args[0] != 42 {
		t.Errorf("calls = %+v", fake.Calls)
	}
}
