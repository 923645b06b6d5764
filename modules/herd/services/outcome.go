package services

import (
	"github.com/iota-uz/herdbook/modules/herd/domain/entities/event"
	"github.com/iota-uz/herdbook/modules/herd/domain/entities/sample"
)

// SkipReason explains why a row produced nothing. Skips are expected and
// never fail an import.
type SkipReason string

const (
	SkipMissingKey          SkipReason = "missing_key"
	SkipUnresolvedReference SkipReason = "unresolved_reference"
	SkipUnnormalizableDate  SkipReason = "unnormalizable_date"
	SkipUnparsableNumber    SkipReason = "unparsable_number"
)

// rowOutcome is the result of deriving records from one row: either the
// records to append or the reason nothing was appended.
type rowOutcome struct {
	events  []event.Event
	samples []sample.Sample
	skip    SkipReason
}

func skipped(reason SkipReason) rowOutcome {
	return rowOutcome{skip: reason}
}

func (o rowOutcome) imported() int {
	return len(o.events) + len(o.samples)
}
