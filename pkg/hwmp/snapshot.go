package hwmp

import (
    "time"

    "hwmesh/pkg/mac"
)

// Snapshot is a detached, ordered copy of the table for diagnostics and
// dumps. Lifetimes are relative to TakenAt.
type Snapshot struct {
    TakenAt   int64       `json:"taken_at_unix_ms" cbor:"taken_at_unix_ms"`
    Reactive  []RouteView `json:"reactive" cbor:"reactive"`
    Proactive *RouteView  `json:"proactive,omitempty" cbor:"proactive,omitempty"`
}

// RouteView is one route inside a Snapshot. Destination is the tree root
// for the proactive route.
type RouteView struct {
    Destination   string          `json:"destination" cbor:"destination"`
    Retransmitter string          `json:"retransmitter" cbor:"retransmitter"`
    Interface     uint32          `json:"interface" cbor:"interface"`
    Metric        uint32          `json:"metric" cbor:"metric"`
    SeqNum        uint32          `json:"seqnum" cbor:"seqnum"`
    LifetimeMS    int64           `json:"lifetime_ms" cbor:"lifetime_ms"`
    Expired       bool            `json:"expired" cbor:"expired"`
    Precursors    []PrecursorView `json:"precursors,omitempty" cbor:"precursors,omitempty"`
}

// PrecursorView is one precursor inside a RouteView.
type PrecursorView struct {
    Address    string `json:"address" cbor:"address"`
    Interface  uint32 `json:"interface" cbor:"interface"`
    LifetimeMS int64  `json:"lifetime_ms" cbor:"lifetime_ms"`
}

// Snapshot copies the table. Unlike LookupProactive it never drops an
// expired proactive route.
func (t *Table) Snapshot() Snapshot {
    now := t.now()
    s := Snapshot{TakenAt: now.UnixMilli(), Reactive: make([]RouteView, 0, t.routes.Len())}
    t.routes.Ascend(func(it reactiveItem) bool {
        r := it.route
        s.Reactive = append(s.Reactive, view(mac.FromUint64(it.key), r.Retransmitter, r.Interface, r.Metric, r.SeqNum, r.ExpireAt, r.Precursors, now))
        return true
    })
    if r := t.root; r != nil {
        v := view(r.Root, r.Retransmitter, r.Interface, r.Metric, r.SeqNum, r.ExpireAt, r.Precursors, now)
        s.Proactive = &v
    }
    return s
}

func view(dst, next mac.Address, iface, metric, seq uint32, exp time.Time, ps []Precursor, now time.Time) RouteView {
    v := RouteView{
        Destination:   dst.String(),
        Retransmitter: next.String(),
        Interface:     iface,
        Metric:        metric,
        SeqNum:        seq,
        LifetimeMS:    exp.Sub(now).Milliseconds(),
        Expired:       expired(exp, now),
    }
    for _, p := range ps {
        v.Precursors = append(v.Precursors, PrecursorView{
            Address:    p.Address.String(),
            Interface:  p.Interface,
            LifetimeMS: p.ExpireAt.Sub(now).Milliseconds(),
        })
    }
    return v
}
