package scenario

import (
    "context"
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "hwmesh/pkg/config"
    "hwmesh/pkg/hwmp"
    "hwmesh/pkg/mac"
    "hwmesh/pkg/simclock"
)

const (
    peerA = "02:00:00:00:00:0a"
    peerB = "02:00:00:00:00:0b"
    dstX  = "02:00:00:00:00:21"
    dstY  = "02:00:00:00:00:22"
    dstZ  = "02:00:00:00:00:23"
    rootR = "02:00:00:00:00:f0"
    precP = "02:00:00:00:01:01"
    precQ = "02:00:00:00:01:02"
)

func newRunner(t *testing.T) *Runner {
    t.Helper()
    clk := simclock.NewVirtual(time.Time{})
    return NewRunner(hwmp.New(hwmp.Options{Clock: clk}), clk, config.Default().Table)
}

func TestLinkDownBuildsRouteError(t *testing.T) {
    r := newRunner(t)
    sc := &Scenario{Name: "link-down", Events: []Event{
        {Kind: KindReactive, Dst: dstX, Via: peerA, Metric: 10, SeqNum: 3},
        {Kind: KindReactive, Dst: dstY, Via: peerA, Metric: 10, SeqNum: 7},
        {Kind: KindReactive, Dst: dstZ, Via: peerB, Metric: 10, SeqNum: 1},
        {Kind: KindPrecursor, Dst: dstX, Precursor: precP, Iface: 1},
        {Kind: KindPrecursor, Dst: dstY, Precursor: precP, Iface: 1},
        {Kind: KindPrecursor, Dst: dstY, Precursor: precQ},
        {Kind: KindPrecursor, Dst: dstY, Precursor: peerA},
        {Kind: KindAdvance, By: time.Second},
        {Kind: KindLinkDown, Peer: peerA},
    }}

    res, err := r.Run(context.Background(), sc)
    require.NoError(t, err)
    require.Len(t, res.RouteErrors, 1)

    perr := res.RouteErrors[0]
    assert.Equal(t, time.Second, perr.At)
    assert.Equal(t, mac.MustParse(peerA), perr.Peer)
    assert.Equal(t, []hwmp.FailedDestination{
        {Destination: mac.MustParse(dstX), SeqNum: 4},
        {Destination: mac.MustParse(dstY), SeqNum: 8},
    }, perr.Destinations)
    assert.Equal(t, []hwmp.PrecursorRef{
        {Interface: 1, Address: mac.MustParse(precP)},
        {Interface: 0, Address: mac.MustParse(precQ)},
    }, perr.Receivers, "deduplicated, failed peer excluded")

    tb := r.Table()
    assert.Equal(t, 1, tb.Len())
    assert.False(t, tb.LookupReactiveExpired(mac.MustParse(dstX)).IsValid())
    assert.True(t, tb.LookupReactive(mac.MustParse(dstZ)).IsValid())
}

func TestLinkDownRetiresRootPathOnly(t *testing.T) {
    r := newRunner(t)
    sc := &Scenario{Events: []Event{
        {Kind: KindProactive, Root: rootR, Via: peerA, Metric: 5, SeqNum: 2},
        {Kind: KindReactive, Dst: rootR, Via: peerB, Metric: 5, SeqNum: 9},
        {Kind: KindLinkDown, Peer: peerA},
        {Kind: KindLinkDown, Peer: mac.Broadcast.String()},
    }}
    res, err := r.Run(context.Background(), sc)
    require.NoError(t, err)
    require.Len(t, res.RouteErrors, 1, "a failure with nothing behind it produces no route error")
    assert.Equal(t, []hwmp.FailedDestination{{Destination: mac.MustParse(rootR), SeqNum: 3}}, res.RouteErrors[0].Destinations)

    tb := r.Table()
    assert.False(t, tb.IsValid())
    assert.True(t, tb.LookupReactive(mac.MustParse(rootR)).IsValid(), "reactive route via another hop survives")
}

func TestForwardFallsBackToRoot(t *testing.T) {
    r := newRunner(t)
    sc := &Scenario{Events: []Event{
        {Kind: KindReactive, Dst: dstX, Via: peerA, Iface: 2, Metric: 10, SeqNum: 1, Lifetime: time.Second},
        {Kind: KindProactive, Root: rootR, Via: peerB, Iface: 3, Metric: 5, SeqNum: 1, Lifetime: 10 * time.Second},
        {Kind: KindForward, Dst: dstX},
        {Kind: KindForward, Dst: dstX, At: 2 * time.Second},
        {Kind: KindForward, Dst: dstY, At: 11 * time.Second},
    }}
    res, err := r.Run(context.Background(), sc)
    require.NoError(t, err)
    require.Len(t, res.Forwards, 3)

    assert.Equal(t, "reactive", res.Forwards[0].Source)
    assert.Equal(t, mac.MustParse(peerA), res.Forwards[0].NextHop)
    assert.Equal(t, uint32(2), res.Forwards[0].Iface)

    assert.Equal(t, "proactive", res.Forwards[1].Source)
    assert.Equal(t, mac.MustParse(peerB), res.Forwards[1].NextHop)
    assert.Equal(t, 2*time.Second, res.Forwards[1].At)

    assert.Equal(t, "none", res.Forwards[2].Source)
    assert.Equal(t, mac.Unspecified, res.Forwards[2].NextHop)
    assert.Equal(t, hwmp.InterfaceAny, res.Forwards[2].Iface)
    assert.False(t, r.Table().IsValid(), "expired root path dropped by the lookup")
}

func TestDefaultLifetimesApply(t *testing.T) {
    r := newRunner(t)
    require.NoError(t, r.Apply(Event{Kind: KindReactive, Dst: dstX, Via: peerA, SeqNum: 1}))
    assert.Equal(t, config.Default().Table.ReactiveLifetime, r.Table().LookupReactive(mac.MustParse(dstX)).Lifetime)
}

func TestDeleteEvents(t *testing.T) {
    r := newRunner(t)
    for _, ev := range []Event{
        {Kind: KindReactive, Dst: dstX, Via: peerA, SeqNum: 1},
        {Kind: KindProactive, Root: rootR, Via: peerA, SeqNum: 1},
        {Kind: KindDeleteProactive, Root: dstX},
        {Kind: KindDeleteReactive, Dst: dstX},
    } {
        require.NoError(t, r.Apply(ev))
    }
    assert.True(t, r.Table().IsValid())
    assert.Equal(t, 0, r.Table().Len())
    require.NoError(t, r.Apply(Event{Kind: KindDeleteProactive}))
    assert.False(t, r.Table().IsValid())
}

func TestApplyErrors(t *testing.T) {
    r := newRunner(t)
    assert.ErrorIs(t, r.Apply(Event{Kind: "teleport"}), ErrUnknownEvent)
    assert.ErrorIs(t, r.Apply(Event{Kind: KindReactive, Dst: "nope", Via: peerA}), mac.ErrInvalidAddress)
    assert.ErrorIs(t, r.Apply(Event{Kind: KindLinkDown, Peer: ""}), mac.ErrInvalidAddress)

    _, err := r.Run(context.Background(), &Scenario{Events: []Event{{Kind: KindAdvance}, {Kind: "bogus"}}})
    assert.ErrorIs(t, err, ErrUnknownEvent)
    assert.Contains(t, err.Error(), "event 1")
}

func TestRunHonoursContext(t *testing.T) {
    r := newRunner(t)
    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    _, err := r.Run(ctx, &Scenario{Events: []Event{{Kind: KindAdvance, By: time.Second}}})
    assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadYAML(t *testing.T) {
    p := filepath.Join(t.TempDir(), "two-hop.yaml")
    body := `
name: two-hop
events:
  - {event: Reactive, dst: "` + dstX + `", via: "` + peerA + `", metric: 20, seqnum: 4, lifetime: 3s}
  - {event: advance, by: 1500ms}
  - {event: link_down, peer: "` + peerA + `"}
`
    require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

    sc, err := Load(p)
    require.NoError(t, err)
    assert.Equal(t, "two-hop", sc.Name)
    require.Len(t, sc.Events, 3)
    assert.Equal(t, KindReactive, sc.Events[0].Kind)
    assert.Equal(t, uint32(20), sc.Events[0].Metric)
    assert.Equal(t, uint32(4), sc.Events[0].SeqNum)
    assert.Equal(t, 3*time.Second, sc.Events[0].Lifetime)
    assert.Equal(t, 1500*time.Millisecond, sc.Events[1].By)

    res, err := newRunner(t).Run(context.Background(), sc)
    require.NoError(t, err)
    require.Len(t, res.RouteErrors, 1)
    assert.Equal(t, uint32(5), res.RouteErrors[0].Destinations[0].SeqNum)
}

func TestLoadMissingFile(t *testing.T) {
    _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
    assert.Error(t, err)
}
