package vertigo

import (
	"github.com/hupe1980/vertigo/engine"
	"github.com/hupe1980/vertigo/functional"
	"github.com/hupe1980/vertigo/preprocess"
	"github.com/hupe1980/vertigo/shard"
)

// Sentinel errors from the underlying packages, re-exported so callers can
// match with errors.Is without importing each package.
var (
	// ErrShardFormat tags on-disk format violations detected at open time.
	ErrShardFormat = shard.ErrShardFormat

	// ErrBudgetExceeded is returned when an interval's working set does not
	// fit the configured memory budget.
	ErrBudgetExceeded = shard.ErrBudgetExceeded

	// ErrInvalidIterations is returned for negative iteration counts.
	ErrInvalidIterations = engine.ErrInvalidIterations

	// ErrKernelAssertion tags kernel contract violations detected at runtime.
	ErrKernelAssertion = functional.ErrKernelAssertion

	// ErrEdgeListFormat tags malformed edge-list input. Inspect the concrete
	// *preprocess.ParseError for the offending line.
	ErrEdgeListFormat = preprocess.ErrEdgeListFormat

	// ErrEmptyEdgeList is returned when the input contains no edges.
	ErrEmptyEdgeList = preprocess.ErrEmptyEdgeList
)
