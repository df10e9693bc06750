package scenario

import (
    "context"
    "fmt"
    "time"

    "go.uber.org/zap"

    "hwmesh/pkg/config"
    "hwmesh/pkg/hwmp"
    "hwmesh/pkg/mac"
    "hwmesh/pkg/simclock"
)

// RouteError is the notification a link failure produces: the destinations
// that became unreachable with their advanced sequence numbers, and the
// precursors that must receive it.
type RouteError struct {
    At           time.Duration
    Peer         mac.Address
    Destinations []hwmp.FailedDestination
    Receivers    []hwmp.PrecursorRef
}

// Forward records the next-hop decision for a forward event.
type Forward struct {
    At      time.Duration
    Dst     mac.Address
    Source  string // "reactive", "proactive" or "none"
    NextHop mac.Address
    Iface   uint32
}

// Result collects what a run produced.
type Result struct {
    RouteErrors []RouteError
    Forwards    []Forward
}

// Runner applies events to a table.
type Runner struct {
    table    *hwmp.Table
    clock    *simclock.Virtual
    start    time.Time
    defaults config.TableConfig
    res      Result
}

// NewRunner binds a runner to table and the virtual clock the table reads.
// defaults supplies lifetimes for events that omit them.
func NewRunner(table *hwmp.Table, clock *simclock.Virtual, defaults config.TableConfig) *Runner {
    return &Runner{table: table, clock: clock, start: clock.Now(), defaults: defaults}
}

// Table returns the driven table.
func (r *Runner) Table() *hwmp.Table { return r.table }

// Result returns everything produced so far.
func (r *Runner) Result() Result { return r.res }

// Run applies every event in order. It stops at the first failing event or
// when ctx is done.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (Result, error) {
    for i, ev := range sc.Events {
        if err := ctx.Err(); err != nil {
            return r.res, err
        }
        if err := r.Apply(ev); err != nil {
            return r.res, fmt.Errorf("event %d (%s): %w", i, ev.Kind, err)
        }
    }
    zap.L().Info("scenario finished",
        zap.String("scenario", sc.Name), zap.Int("events", len(sc.Events)),
        zap.Duration("elapsed", r.elapsed()), zap.Int("route_errors", len(r.res.RouteErrors)))
    return r.res, nil
}

// Apply runs a single event.
func (r *Runner) Apply(ev Event) error {
    if ev.At > 0 {
        r.clock.Set(r.start.Add(ev.At))
    }
    switch ev.Kind {
    case KindAdvance:
        r.clock.Advance(ev.By)
        return nil
    case KindReactive:
        dst, via, err := addrs(ev.Dst, ev.Via)
        if err != nil {
            return err
        }
        r.table.AddReactivePath(dst, via, ev.Iface, ev.Metric, r.lifetime(ev.Lifetime, r.defaults.ReactiveLifetime), ev.SeqNum)
        return nil
    case KindProactive:
        root, via, err := addrs(ev.Root, ev.Via)
        if err != nil {
            return err
        }
        r.table.AddProactivePath(ev.Metric, root, via, ev.Iface, r.lifetime(ev.Lifetime, r.defaults.ProactiveLifetime), ev.SeqNum)
        return nil
    case KindPrecursor:
        dst, prec, err := addrs(ev.Dst, ev.Precursor)
        if err != nil {
            return err
        }
        r.table.AddPrecursor(dst, ev.Iface, prec, r.lifetime(ev.Lifetime, r.defaults.PrecursorLifetime))
        return nil
    case KindForward:
        dst, err := mac.Parse(ev.Dst)
        if err != nil {
            return err
        }
        r.forward(dst)
        return nil
    case KindLinkDown:
        peer, err := mac.Parse(ev.Peer)
        if err != nil {
            return err
        }
        r.linkDown(peer)
        return nil
    case KindDeleteReactive:
        dst, err := mac.Parse(ev.Dst)
        if err != nil {
            return err
        }
        r.table.DeleteReactivePath(dst)
        return nil
    case KindDeleteProactive:
        if ev.Root == "" {
            r.table.DeleteProactivePath()
            return nil
        }
        root, err := mac.Parse(ev.Root)
        if err != nil {
            return err
        }
        r.table.DeleteProactivePathFor(root)
        return nil
    default:
        return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
    }
}

// forward resolves the next hop: a live reactive route first, otherwise the
// tree root path when one is stored.
func (r *Runner) forward(dst mac.Address) {
    f := Forward{At: r.elapsed(), Dst: dst, Source: "none", Iface: hwmp.InterfaceAny}
    res := r.table.LookupReactive(dst)
    if res.IsValid() {
        f.Source = "reactive"
    } else if r.table.IsValid() {
        if res = r.table.LookupProactive(); res.IsValid() {
            f.Source = "proactive"
        }
    }
    if f.Source != "none" {
        f.NextHop, f.Iface = res.Retransmitter, res.Interface
    }
    r.res.Forwards = append(r.res.Forwards, f)
    zap.L().Info("forward", zap.Stringer("dst", dst), zap.String("source", f.Source), zap.Stringer("next_hop", f.NextHop))
}

// linkDown builds the route error for a failed neighbour and retires every
// route that went through it. The failed neighbour itself is not a receiver.
func (r *Runner) linkDown(peer mac.Address) {
    failed := r.table.GetUnreachableDestinations(peer)
    perr := RouteError{At: r.elapsed(), Peer: peer, Destinations: failed}
    seen := make(map[hwmp.PrecursorRef]struct{})
    for _, fd := range failed {
        for _, p := range r.table.GetPrecursors(fd.Destination) {
            if _, dup := seen[p]; dup || p.Address == peer {
                continue
            }
            seen[p] = struct{}{}
            perr.Receivers = append(perr.Receivers, p)
        }
    }
    for _, fd := range failed {
        if r.table.LookupReactiveExpired(fd.Destination).Retransmitter == peer {
            r.table.DeleteReactivePath(fd.Destination)
        }
    }
    if root, ok := r.table.Root(); ok && r.table.LookupProactiveExpired().Retransmitter == peer {
        r.table.DeleteProactivePathFor(root)
    }
    if len(failed) > 0 {
        r.res.RouteErrors = append(r.res.RouteErrors, perr)
    }
    zap.L().Info("link down",
        zap.Stringer("peer", peer), zap.Int("unreachable", len(failed)), zap.Int("receivers", len(perr.Receivers)))
}

func (r *Runner) lifetime(ev, def time.Duration) time.Duration {
    if ev > 0 {
        return ev
    }
    return def
}

func (r *Runner) elapsed() time.Duration { return r.clock.Elapsed(r.start) }

func addrs(a, b string) (mac.Address, mac.Address, error) {
    x, err := mac.Parse(a)
    if err != nil {
        return x, mac.Unspecified, err
    }
    y, err := mac.Parse(b)
    return x, y, err
}
