package report

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

var ErrSuperseded = errors.New("report superseded by a newer request")

// Tracker stamps requests with increasing generations. A computation whose
// ticket is no longer current should be discarded by its caller; rows are
// never shared between computations, so nothing needs undoing.
type Tracker struct {
	gen atomic.Uint64
}

type Ticket struct {
	tracker *Tracker
	gen     uint64
}

func (t *Tracker) Begin() Ticket {
	return Ticket{tracker: t, gen: t.gen.Add(1)}
}

func (k Ticket) Generation() uint64 {
	return k.gen
}

// Current reports whether no newer request has begun since k.
func (k Ticket) Current() bool {
	return k.tracker.gen.Load() == k.gen
}
