package metrics

import (
    "strings"
    "testing"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/testutil"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "hwmesh/pkg/hwmp"
    "hwmesh/pkg/mac"
    "hwmesh/pkg/simclock"
)

func TestTableCollector(t *testing.T) {
    clk := simclock.NewVirtual(time.Time{})
    tb := hwmp.New(hwmp.Options{Clock: clk})
    dst := mac.MustParse("02:00:00:00:00:01")
    hop := mac.MustParse("02:00:00:00:00:aa")
    tb.AddReactivePath(dst, hop, 1, 10, time.Second, 2)
    tb.AddReactivePath(dst, hop, 1, 10, time.Second, 1)
    tb.LookupReactive(dst)

    reg := prometheus.NewPedanticRegistry()
    c, err := Register(reg, "hwmesh", "node-a", tb)
    require.NoError(t, err)

    assert.Equal(t, 15, testutil.CollectAndCount(c))

    expected := `
# HELP hwmesh_hwmp_reactive_routes Stored reactive routes, expired included
# TYPE hwmesh_hwmp_reactive_routes gauge
hwmesh_hwmp_reactive_routes{node="node-a"} 1
# HELP hwmesh_hwmp_reactive_rejected_total Reactive paths dropped as stale
# TYPE hwmesh_hwmp_reactive_rejected_total counter
hwmesh_hwmp_reactive_rejected_total{node="node-a"} 1
# HELP hwmesh_hwmp_lookup_hits_total Lookups that found a live route
# TYPE hwmesh_hwmp_lookup_hits_total counter
hwmesh_hwmp_lookup_hits_total{node="node-a"} 1
`
    require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
        "hwmesh_hwmp_reactive_routes", "hwmesh_hwmp_reactive_rejected_total", "hwmesh_hwmp_lookup_hits_total"))

    _, err = Register(reg, "hwmesh", "node-a", tb)
    assert.Error(t, err, "duplicate registration is rejected")
}
