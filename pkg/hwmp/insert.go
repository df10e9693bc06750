package hwmp

import (
    "time"

    "go.uber.org/zap"

    "hwmesh/pkg/mac"
)

// fresher reports whether an advertisement (seq, metric) supersedes the
// stored (curSeq, curMetric): a newer sequence number always wins, an equal
// one wins only with a strictly better metric.
func fresher(seq, metric, curSeq, curMetric uint32) bool {
    if seq != curSeq {
        return seq > curSeq
    }
    return metric < curMetric
}

// AddReactivePath records a discovered path to dst. An existing route is
// replaced only if the new one is fresher; the precursor set is kept on
// replacement. Returns whether the path was accepted.
func (t *Table) AddReactivePath(dst, retransmitter mac.Address, iface, metric uint32, lifetime time.Duration, seqnum uint32) bool {
    r, ok := t.get(dst)
    if ok && !fresher(seqnum, metric, r.SeqNum, r.Metric) {
        t.st.reactiveRejected.Add(1)
        zap.L().Debug("route ignored (stale)",
            zap.Stringer("dst", dst),
            zap.Uint32("seqnum", seqnum), zap.Uint32("metric", metric),
            zap.Uint32("cur_seqnum", r.SeqNum), zap.Uint32("cur_metric", r.Metric))
        return false
    }
    if !ok {
        r = &ReactiveRoute{}
        t.routes.ReplaceOrInsert(reactiveItem{key: dst.Uint64(), route: r})
        t.syncGauges()
    }
    r.Retransmitter = retransmitter
    r.Interface = iface
    r.Metric = metric
    r.SeqNum = seqnum
    r.ExpireAt = expireAt(t.now(), lifetime)
    t.st.reactiveAccepted.Add(1)
    zap.L().Debug("route learned",
        zap.Stringer("dst", dst), zap.Stringer("next_hop", retransmitter),
        zap.Uint32("iface", iface), zap.Uint32("metric", metric),
        zap.Uint32("seqnum", seqnum), zap.Duration("lifetime", lifetime))
    return true
}

// AddProactivePath records the path towards the tree root. For the same
// root the freshness rule applies as for reactive routes and precursors are
// kept. A different root takes over the slot only when the stored route has
// expired or the new metric is strictly better; precursors of the previous
// root are dropped then. Returns whether the path was accepted.
func (t *Table) AddProactivePath(metric uint32, root, retransmitter mac.Address, iface uint32, lifetime time.Duration, seqnum uint32) bool {
    now := t.now()
    cur := t.root
    switch {
    case cur == nil:
        t.root = &ProactiveRoute{Root: root}
        t.syncGauges()
    case cur.Root == root:
        if !fresher(seqnum, metric, cur.SeqNum, cur.Metric) {
            t.st.proactiveRejected.Add(1)
            zap.L().Debug("proactive route ignored (stale)",
                zap.Stringer("root", root),
                zap.Uint32("seqnum", seqnum), zap.Uint32("metric", metric),
                zap.Uint32("cur_seqnum", cur.SeqNum), zap.Uint32("cur_metric", cur.Metric))
            return false
        }
    default:
        if !expired(cur.ExpireAt, now) && metric >= cur.Metric {
            t.st.proactiveRejected.Add(1)
            zap.L().Debug("proactive root ignored (worse)",
                zap.Stringer("root", root), zap.Stringer("cur_root", cur.Root),
                zap.Uint32("metric", metric), zap.Uint32("cur_metric", cur.Metric))
            return false
        }
        zap.L().Debug("proactive root changed", zap.Stringer("from", cur.Root), zap.Stringer("to", root))
        t.root = &ProactiveRoute{Root: root}
        t.st.rootChanges.Add(1)
    }
    r := t.root
    r.Retransmitter = retransmitter
    r.Interface = iface
    r.Metric = metric
    r.SeqNum = seqnum
    r.ExpireAt = expireAt(now, lifetime)
    t.st.proactiveAccepted.Add(1)
    zap.L().Debug("proactive route learned",
        zap.Stringer("root", root), zap.Stringer("next_hop", retransmitter),
        zap.Uint32("iface", iface), zap.Uint32("metric", metric),
        zap.Uint32("seqnum", seqnum), zap.Duration("lifetime", lifetime))
    return true
}
