package hwmp

import "sync/atomic"

// Stats is a point-in-time copy of the table counters.
type Stats struct {
    ReactiveRoutes    uint64 // stored reactive routes, expired included
    ProactiveRoutes   uint64 // 0 or 1
    ReactiveAccepted  uint64
    ReactiveRejected  uint64 // lost freshness arbitration
    ProactiveAccepted uint64
    ProactiveRejected uint64
    RootChanges       uint64
    Lookups           uint64
    Hits              uint64
    Misses            uint64 // absent or expired
    Expired           uint64 // misses caused by expiry
    ProactivePurged   uint64
    Deleted           uint64
    PrecursorsAdded   uint64
    LinkFailures      uint64
}

type stats struct {
    routes            atomic.Int64
    proactive         atomic.Int64
    reactiveAccepted  atomic.Uint64
    reactiveRejected  atomic.Uint64
    proactiveAccepted atomic.Uint64
    proactiveRejected atomic.Uint64
    rootChanges       atomic.Uint64
    lookups           atomic.Uint64
    hits              atomic.Uint64
    misses            atomic.Uint64
    expired           atomic.Uint64
    purged            atomic.Uint64
    deleted           atomic.Uint64
    precursors        atomic.Uint64
    linkFailures      atomic.Uint64
}

// Stats returns the counters. It only touches atomics and may be called
// concurrently with table operations, e.g. from a metrics scrape.
func (t *Table) Stats() Stats {
    return Stats{
        ReactiveRoutes:    uint64(t.st.routes.Load()),
        ProactiveRoutes:   uint64(t.st.proactive.Load()),
        ReactiveAccepted:  t.st.reactiveAccepted.Load(),
        ReactiveRejected:  t.st.reactiveRejected.Load(),
        ProactiveAccepted: t.st.proactiveAccepted.Load(),
        ProactiveRejected: t.st.proactiveRejected.Load(),
        RootChanges:       t.st.rootChanges.Load(),
        Lookups:           t.st.lookups.Load(),
        Hits:              t.st.hits.Load(),
        Misses:            t.st.misses.Load(),
        Expired:           t.st.expired.Load(),
        ProactivePurged:   t.st.purged.Load(),
        Deleted:           t.st.deleted.Load(),
        PrecursorsAdded:   t.st.precursors.Load(),
        LinkFailures:      t.st.linkFailures.Load(),
    }
}

func (t *Table) syncGauges() {
    t.st.routes.Store(int64(t.routes.Len()))
    if t.root != nil {
        t.st.proactive.Store(1)
    } else {
        t.st.proactive.Store(0)
    }
}

func (t *Table) lookupOutcome(found, stale bool) {
    t.st.lookups.Add(1)
    switch {
    case !found:
        t.st.misses.Add(1)
    case stale:
        t.st.misses.Add(1)
        t.st.expired.Add(1)
    default:
        t.st.hits.Add(1)
    }
}
