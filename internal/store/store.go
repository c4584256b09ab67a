// Package store persists calculation records. Records are append-only: the
// repository has no update or delete path.
package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"calcform/internal/calculation"
)

// RecentLimit is the number of records shown beside the form.
const RecentLimit = 10

var ErrNotFound = errors.New("calculation not found")

// Filter narrows a listing. Zero-valued fields match every record; a
// non-positive Limit means RecentLimit.
type Filter struct {
	Operator calculation.Operator
	// Since is inclusive, Until exclusive.
	Since time.Time
	Until time.Time
	// Number matches records where any operand or the result equals it.
	Number *float64
	Limit  int
}

func (f Filter) matches(c calculation.Calculation) bool {
	if f.Operator != "" && c.Operator != f.Operator {
		return false
	}
	if !f.Since.IsZero() && c.CreatedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && !c.CreatedAt.Before(f.Until) {
		return false
	}
	if f.Number != nil {
		n := *f.Number
		if c.Number1 != n && c.Number2 != n && c.Number3 != n && c.Result != n {
			return false
		}
	}
	return true
}

func (f Filter) limit() int {
	if f.Limit <= 0 {
		return RecentLimit
	}
	return f.Limit
}

// Repository is the storage contract used by the HTTP handlers and the CLI.
// Listings are ordered newest first by creation time, then by id.
type Repository interface {
	// Insert assigns ID and CreatedAt on c and returns the new id.
	Insert(ctx context.Context, c *calculation.Calculation) (uint, error)
	// Get returns ErrNotFound when no record has the given id.
	Get(ctx context.Context, id uint) (*calculation.Calculation, error)
	ListRecent(ctx context.Context, limit int) ([]calculation.Calculation, error)
	List(ctx context.Context, f Filter) ([]calculation.Calculation, error)
	Close() error
}

// checkStorable rejects records the SQLite schema cannot hold: NaN binds as
// NULL and the result column is not nullable.
func checkStorable(c *calculation.Calculation) error {
	if math.IsNaN(c.Result) {
		return fmt.Errorf("insert calculation: %w", calculation.ErrUndefinedResult)
	}
	return nil
}
