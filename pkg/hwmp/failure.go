package hwmp

import (
    "go.uber.org/zap"

    "hwmesh/pkg/mac"
)

// GetUnreachableDestinations lists every destination routed through peer,
// in address order, followed by the tree root if the proactive route goes
// through peer too. Each entry carries the stored sequence number plus one,
// the value a route error has to advertise to invalidate the path
// downstream. A root that also has a reactive route through peer is listed
// once with the higher of the two numbers.
//
// Nothing is removed; callers collect precursors and then delete.
func (t *Table) GetUnreachableDestinations(peer mac.Address) []FailedDestination {
    var out []FailedDestination
    t.routes.Ascend(func(it reactiveItem) bool {
        if it.route.Retransmitter == peer {
            out = append(out, FailedDestination{
                Destination: mac.FromUint64(it.key),
                SeqNum:      it.route.SeqNum + 1,
            })
        }
        return true
    })
    if r := t.root; r != nil && r.Retransmitter == peer {
        merged := false
        for i := range out {
            if out[i].Destination == r.Root {
                if r.SeqNum+1 > out[i].SeqNum {
                    out[i].SeqNum = r.SeqNum + 1
                }
                merged = true
                break
            }
        }
        if !merged {
            out = append(out, FailedDestination{Destination: r.Root, SeqNum: r.SeqNum + 1})
        }
    }
    t.st.linkFailures.Add(1)
    zap.L().Debug("link failure snapshot", zap.Stringer("peer", peer), zap.Int("unreachable", len(out)))
    return out
}
