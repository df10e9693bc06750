package hwmp

import (
    "go.uber.org/zap"

    "hwmesh/pkg/mac"
)

// LookupReactive returns the route to dst, or NoRoute if there is none or
// it has expired. Expired routes are left in place.
func (t *Table) LookupReactive(dst mac.Address) LookupResult {
    r, ok := t.get(dst)
    if !ok {
        t.lookupOutcome(false, false)
        return NoRoute()
    }
    now := t.now()
    if expired(r.ExpireAt, now) {
        t.lookupOutcome(true, true)
        return NoRoute()
    }
    t.lookupOutcome(true, false)
    return LookupResult{r.Retransmitter, r.Interface, r.Metric, r.SeqNum, r.ExpireAt.Sub(now)}
}

// LookupReactiveExpired returns the stored route to dst whether or not it
// has expired, or NoRoute if nothing was ever learned.
func (t *Table) LookupReactiveExpired(dst mac.Address) LookupResult {
    r, ok := t.get(dst)
    if !ok {
        return NoRoute()
    }
    return LookupResult{r.Retransmitter, r.Interface, r.Metric, r.SeqNum, r.ExpireAt.Sub(t.now())}
}

// LookupProactive returns the route to the tree root. An expired proactive
// route is deleted as a side effect and NoRoute is returned.
func (t *Table) LookupProactive() LookupResult {
    if t.root == nil {
        t.lookupOutcome(false, false)
        return NoRoute()
    }
    if expired(t.root.ExpireAt, t.now()) {
        t.lookupOutcome(true, true)
        zap.L().Debug("proactive route expired", zap.Stringer("root", t.root.Root))
        t.root = nil
        t.st.purged.Add(1)
        t.syncGauges()
        return NoRoute()
    }
    t.lookupOutcome(true, false)
    return t.LookupProactiveExpired()
}

// LookupProactiveExpired returns the stored proactive route regardless of
// expiry, or NoRoute if there is none.
func (t *Table) LookupProactiveExpired() LookupResult {
    r := t.root
    if r == nil {
        return NoRoute()
    }
    return LookupResult{r.Retransmitter, r.Interface, r.Metric, r.SeqNum, r.ExpireAt.Sub(t.now())}
}

// Root returns the address of the stored tree root, if any.
func (t *Table) Root() (mac.Address, bool) {
    if t.root == nil {
        return mac.Unspecified, false
    }
    return t.root.Root, true
}

// WithReactiveRoute lends the stored route record for dst to fn for in-place
// changes, expired or not. The pointer is only valid while fn runs: fn must
// not keep it and must not call back into the table. Returns false without
// calling fn when no route is stored.
func (t *Table) WithReactiveRoute(dst mac.Address, fn func(*ReactiveRoute)) bool {
    r, ok := t.get(dst)
    if !ok {
        return false
    }
    fn(r)
    return true
}

// WithProactiveRoute is WithReactiveRoute for the proactive route.
func (t *Table) WithProactiveRoute(fn func(*ProactiveRoute)) bool {
    if t.root == nil {
        return false
    }
    fn(t.root)
    return true
}
