// Package datasourcetest provides a scripted datasource.Querier for adapter tests.
package datasourcetest

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"sync"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
)

// Result is one scripted response to a Query call.
type Result struct {
	Columns []string
	Rows    [][]any
	Err     error // returned by Query itself
	IterErr error // returned by Rows.Err after the rows are consumed
}

// Call records one Query invocation.
type Call struct {
	SQL  string
	Args []any
}

// Querier answers Query calls with Results in the order they were queued.
type Querier struct {
	mu         sync.Mutex
	results    []Result
	calls      []Call
	closeCalls int
	CloseErr   error
}

// NewQuerier returns a Querier that will answer with results in order.
func NewQuerier(results ...Result) *Querier {
	return &Querier{results: results}
}

// Push queues more results.
func (q *Querier) Push(results ...Result) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.results = append(q.results, results...)
}

// Query pops the next scripted result. It fails if none is left.
func (q *Querier) Query(_ context.Context, query string, args ...any) (datasource.Rows, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.calls = append(q.calls, Call{SQL: query, Args: args})
	if len(q.results) == 0 {
		return nil, fmt.Errorf("datasourcetest: unexpected query: %s", query)
	}
	res := q.results[0]
	q.results = q.results[1:]
	if res.Err != nil {
		return nil, res.Err
	}
	return &rows{columns: res.Columns, data: res.Rows, iterErr: res.IterErr, pos: -1}, nil
}

// Close counts calls and returns CloseErr.
func (q *Querier) Close(context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closeCalls++
	return q.CloseErr
}

// Calls returns the recorded Query calls.
func (q *Querier) Calls() []Call {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Call(nil), q.calls...)
}

// CloseCalls returns how many times Close was called.
func (q *Querier) CloseCalls() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closeCalls
}

// Remaining returns how many scripted results were not consumed.
func (q *Querier) Remaining() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.results)
}

type rows struct {
	columns []string
	data    [][]any
	iterErr error
	pos     int
	closed  bool
}

func (r *rows) Columns() ([]string, error) {
	return r.columns, nil
}

func (r *rows) Next() bool {
	if r.closed || r.pos+1 >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *rows) Scan(dest ...any) error {
	if r.pos < 0 || r.pos >= len(r.data) {
		return fmt.Errorf("datasourcetest: Scan called without a current row")
	}
	row := r.data[r.pos]
	if len(dest) != len(row) {
		return fmt.Errorf("datasourcetest: expected %d destinations, got %d", len(row), len(dest))
	}
	for i, v := range row {
		if err := assign(dest[i], v); err != nil {
			return fmt.Errorf("datasourcetest: column %d: %w", i, err)
		}
	}
	return nil
}

func (r *rows) Err() error {
	if r.pos+1 >= len(r.data) {
		return r.iterErr
	}
	return nil
}

func (r *rows) Close() {
	r.closed = true
}

// assign mimics the conversions a driver performs for the destination kinds
// the adapters use.
func assign(dest, v any) error {
	if s, ok := dest.(sql.Scanner); ok {
		return s.Scan(v)
	}

	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("destination %T is not a non-nil pointer", dest)
	}
	target := dv.Elem()

	if v == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}

	vv := reflect.ValueOf(v)
	if vv.Type().AssignableTo(target.Type()) {
		target.Set(vv)
		return nil
	}
	if isNumber(vv.Kind()) && isNumber(target.Kind()) {
		target.Set(vv.Convert(target.Type()))
		return nil
	}
	return fmt.Errorf("cannot scan %T into %T", v, dest)
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
