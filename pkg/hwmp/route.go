package hwmp

import (
    "time"

    "hwmesh/pkg/mac"
)

const (
    // InterfaceAny means "all interfaces" / no specific interface.
    InterfaceAny uint32 = 0xffffffff
    // MaxMetric marks an unknown or unusable path cost.
    MaxMetric uint32 = 0xffffffff
)

// Precursor is a neighbour that forwards through us towards a destination
// and must hear about it when the path breaks.
type Precursor struct {
    Address   mac.Address
    Interface uint32
    ExpireAt  time.Time
}

// ReactiveRoute is a path learned on demand towards one destination.
// The destination itself is the table key and is not repeated here.
type ReactiveRoute struct {
    Retransmitter mac.Address
    Interface     uint32
    Metric        uint32
    SeqNum        uint32
    ExpireAt      time.Time
    Precursors    []Precursor
}

// ProactiveRoute is the path towards the mesh tree root.
type ProactiveRoute struct {
    Root          mac.Address
    Retransmitter mac.Address
    Interface     uint32
    Metric        uint32
    SeqNum        uint32
    ExpireAt      time.Time
    Precursors    []Precursor
}

// LookupResult is what every query returns. Lifetime is the time left until
// expiry at the moment of the lookup; it is negative for stale routes
// returned by the *Expired lookups.
type LookupResult struct {
    Retransmitter mac.Address
    Interface     uint32
    Metric        uint32
    SeqNum        uint32
    Lifetime      time.Duration
}

// NoRoute returns the "no route" sentinel.
func NoRoute() LookupResult {
    return LookupResult{
        Retransmitter: mac.Unspecified,
        Interface:     InterfaceAny,
        Metric:        MaxMetric,
    }
}

// IsValid reports whether r describes a route, i.e. is not the NoRoute
// sentinel. Lifetime does not take part in the comparison.
func (r LookupResult) IsValid() bool {
    return !(r.Retransmitter.IsUnspecified() &&
        r.Interface == InterfaceAny &&
        r.Metric == MaxMetric &&
        r.SeqNum == 0)
}

// PrecursorRef identifies a precursor to notify on route failure.
type PrecursorRef struct {
    Interface uint32
    Address   mac.Address
}

// FailedDestination is a destination made unreachable by a link failure,
// with the sequence number a route error must advertise for it.
type FailedDestination struct {
    Destination mac.Address
    SeqNum      uint32
}
