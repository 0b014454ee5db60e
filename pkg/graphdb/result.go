package graphdb

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Result is a fully consumed query result.
type Result struct {
	Keys    []string
	Records []*neo4j.Record
	Summary Summary
}

// Summary describes the server-side outcome of a statement.
type Summary struct {
	Database             string
	Counters             Counters
	ResultAvailableAfter time.Duration
	ResultConsumedAfter  time.Duration
}

// Counters reports the updates a statement made.
type Counters struct {
	NodesCreated         int
	NodesDeleted         int
	RelationshipsCreated int
	RelationshipsDeleted int
	PropertiesSet        int
	LabelsAdded          int
	LabelsRemoved        int
	ContainsUpdates      bool
}

// First returns the first record, or false when the result is empty.
func (r *Result) First() (*neo4j.Record, bool) {
	if r == nil || len(r.Records) == 0 {
		return nil, false
	}
	return r.Records[0], true
}

// Empty reports whether the result holds no records.
func (r *Result) Empty() bool {
	return r == nil || len(r.Records) == 0
}

// Value returns the value of key in the first record.
func (r *Result) Value(key string) (any, bool) {
	rec, ok := r.First()
	if !ok {
		return nil, false
	}
	return rec.Get(key)
}

func collect(ctx context.Context, result neo4j.ResultWithContext) (*Result, error) {
	keys, err := result.Keys()
	if err != nil {
		return nil, err
	}

	records, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := result.Consume(ctx)
	if err != nil {
		return nil, err
	}

	return &Result{
		Keys:    keys,
		Records: records,
		Summary: newSummary(summary),
	}, nil
}

func newSummary(s neo4j.ResultSummary) Summary {
	if s == nil {
		return Summary{}
	}

	out := Summary{
		ResultAvailableAfter: s.ResultAvailableAfter(),
		ResultConsumedAfter:  s.ResultConsumedAfter(),
	}
	if db := s.Database(); db != nil {
		out.Database = db.Name()
	}
	if c := s.Counters(); c != nil {
		out.Counters = Counters{
			NodesCreated:         c.NodesCreated(),
			NodesDeleted:         c.NodesDeleted(),
			RelationshipsCreated: c.RelationshipsCreated(),
			RelationshipsDeleted: c.RelationshipsDeleted(),
			PropertiesSet:        c.PropertiesSet(),
			LabelsAdded:          c.LabelsAdded(),
			LabelsRemoved:        c.LabelsRemoved(),
			ContainsUpdates:      c.ContainsUpdates(),
		}
	}
	return out
}
