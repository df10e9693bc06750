package hwmp

import (
    "time"

    "go.uber.org/zap"

    "hwmesh/pkg/mac"
)

// AddPrecursor attaches addr (seen on iface) as a precursor of dst, or
// refreshes its lifetime if already attached. The precursor is recorded on
// the reactive route to dst and, when dst is the current tree root, on the
// proactive route as well. Without a matching route this is a no-op.
func (t *Table) AddPrecursor(dst mac.Address, iface uint32, addr mac.Address, lifetime time.Duration) {
    p := Precursor{Address: addr, Interface: iface, ExpireAt: expireAt(t.now(), lifetime)}
    attached := false
    if r, ok := t.get(dst); ok {
        r.Precursors = upsertPrecursor(r.Precursors, p)
        attached = true
    }
    if t.root != nil && t.root.Root == dst {
        t.root.Precursors = upsertPrecursor(t.root.Precursors, p)
        attached = true
    }
    if attached {
        t.st.precursors.Add(1)
        zap.L().Debug("precursor added",
            zap.Stringer("dst", dst), zap.Stringer("precursor", addr),
            zap.Uint32("iface", iface), zap.Duration("lifetime", lifetime))
    }
}

// GetPrecursors lists the precursors of dst, from the reactive route first
// and then from the proactive route if dst is the root, without duplicates.
// Expired precursors are included.
func (t *Table) GetPrecursors(dst mac.Address) []PrecursorRef {
    var out []PrecursorRef
    seen := make(map[PrecursorRef]struct{})
    add := func(ps []Precursor) {
        for _, p := range ps {
            ref := PrecursorRef{Interface: p.Interface, Address: p.Address}
            if _, dup := seen[ref]; dup {
                continue
            }
            seen[ref] = struct{}{}
            out = append(out, ref)
        }
    }
    if r, ok := t.get(dst); ok {
        add(r.Precursors)
    }
    if t.root != nil && t.root.Root == dst {
        add(t.root.Precursors)
    }
    return out
}

func upsertPrecursor(ps []Precursor, p Precursor) []Precursor {
    for i := range ps {
        if ps[i].Address == p.Address && ps[i].Interface == p.Interface {
            ps[i].ExpireAt = p.ExpireAt
            return ps
        }
    }
    return append(ps, p)
}
