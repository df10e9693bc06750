// Package hwmp implements the routing table of the Hybrid Wireless Mesh
// Protocol: on-demand (reactive) routes keyed by destination, a single
// proactive route towards the mesh tree root, precursor bookkeeping for
// route-error fan-out, and sequence-number based freshness arbitration.
//
// The table is soft state driven by one caller at a time. Nothing expires in
// the background: expiry is checked against the injected clock when a route
// is looked up, and stale reactive routes stay in place until they are
// overwritten or deleted. The proactive route is the exception and is
// dropped by LookupProactive once found expired.
//
// A Table must not be mutated concurrently. Stats may be read from any
// goroutine.
package hwmp

import (
    "time"

    "github.com/google/btree"
    "go.uber.org/zap"

    "hwmesh/pkg/mac"
    "hwmesh/pkg/simclock"
)

// Options tune a Table.
type Options struct {
    Clock  simclock.Clock // time source for expiry (default: wall clock)
    Degree int            // B-tree degree of the reactive store (default: 16)
}

func (o Options) withDefaults() Options {
    if o.Clock == nil {
        o.Clock = simclock.Real{}
    }
    if o.Degree < 2 {
        o.Degree = 16
    }
    return o
}

// reactiveItem is the ordered-store element: the destination's 64-bit key
// and the live route record.
type reactiveItem struct {
    key   uint64
    route *ReactiveRoute
}

func lessReactive(a, b reactiveItem) bool { return a.key < b.key }

// Table is the HWMP routing table.
type Table struct {
    clock  simclock.Clock
    routes *btree.BTreeG[reactiveItem]
    root   *ProactiveRoute
    st     stats
}

// New creates an empty table.
func New(opts Options) *Table {
    opts = opts.withDefaults()
    return &Table{
        clock:  opts.Clock,
        routes: btree.NewG[reactiveItem](opts.Degree, lessReactive),
    }
}

// Len returns the number of stored reactive routes, expired ones included.
func (t *Table) Len() int { return t.routes.Len() }

// IsValid reports whether a proactive route is stored, expired or not.
func (t *Table) IsValid() bool { return t.root != nil }

// DeleteReactivePath removes the route to dst with its precursors.
// Deleting an absent destination is a no-op.
func (t *Table) DeleteReactivePath(dst mac.Address) {
    if _, ok := t.routes.Delete(reactiveItem{key: dst.Uint64()}); ok {
        t.st.deleted.Add(1)
        t.syncGauges()
        zap.L().Debug("route deleted", zap.Stringer("dst", dst))
    }
}

// DeleteProactivePath clears the proactive route unconditionally.
func (t *Table) DeleteProactivePath() {
    if t.root == nil {
        return
    }
    zap.L().Debug("proactive route deleted", zap.Stringer("root", t.root.Root))
    t.root = nil
    t.st.deleted.Add(1)
    t.syncGauges()
}

// DeleteProactivePathFor clears the proactive route only if it leads to
// root, so a late call about a previous root cannot drop the current one.
func (t *Table) DeleteProactivePathFor(root mac.Address) {
    if t.root == nil || t.root.Root != root {
        return
    }
    t.DeleteProactivePath()
}

func (t *Table) now() time.Time { return t.clock.Now() }

func (t *Table) get(dst mac.Address) (*ReactiveRoute, bool) {
    it, ok := t.routes.Get(reactiveItem{key: dst.Uint64()})
    if !ok {
        return nil, false
    }
    return it.route, true
}

func expired(expireAt, now time.Time) bool { return now.After(expireAt) }

func expireAt(now time.Time, lifetime time.Duration) time.Time {
    if lifetime < 0 {
        lifetime = 0
    }
    return now.Add(lifetime)
}
