// Package metrics exports routing table counters to Prometheus.
package metrics

import (
    "github.com/prometheus/client_golang/prometheus"

    "hwmesh/pkg/hwmp"
)

// StatsSource is anything that can report table counters; *hwmp.Table does.
type StatsSource interface {
    Stats() hwmp.Stats
}

type metric struct {
    desc  *prometheus.Desc
    typ   prometheus.ValueType
    value func(hwmp.Stats) uint64
}

// TableCollector is a prometheus.Collector reading a table's Stats on every
// scrape. Stats is atomic, so scrapes may run alongside the table's owner.
type TableCollector struct {
    src     StatsSource
    metrics []metric
}

// NewTableCollector builds a collector for src. namespace prefixes every
// metric name (e.g. "hwmesh"); node is attached as a constant label when set.
func NewTableCollector(namespace, node string, src StatsSource) *TableCollector {
    var labels prometheus.Labels
    if node != "" {
        labels = prometheus.Labels{"node": node}
    }
    desc := func(name, help string) *prometheus.Desc {
        return prometheus.NewDesc(prometheus.BuildFQName(namespace, "hwmp", name), help, nil, labels)
    }
    gauge, counter := prometheus.GaugeValue, prometheus.CounterValue
    return &TableCollector{
        src: src,
        metrics: []metric{
            {desc("reactive_routes", "Stored reactive routes, expired included"), gauge, func(s hwmp.Stats) uint64 { return s.ReactiveRoutes }},
            {desc("proactive_routes", "1 if a route to the tree root is stored"), gauge, func(s hwmp.Stats) uint64 { return s.ProactiveRoutes }},
            {desc("reactive_accepted_total", "Reactive paths accepted"), counter, func(s hwmp.Stats) uint64 { return s.ReactiveAccepted }},
            {desc("reactive_rejected_total", "Reactive paths dropped as stale"), counter, func(s hwmp.Stats) uint64 { return s.ReactiveRejected }},
            {desc("proactive_accepted_total", "Proactive paths accepted"), counter, func(s hwmp.Stats) uint64 { return s.ProactiveAccepted }},
            {desc("proactive_rejected_total", "Proactive paths dropped as stale or worse"), counter, func(s hwmp.Stats) uint64 { return s.ProactiveRejected }},
            {desc("root_changes_total", "Times the tracked tree root changed"), counter, func(s hwmp.Stats) uint64 { return s.RootChanges }},
            {desc("lookups_total", "Route lookups"), counter, func(s hwmp.Stats) uint64 { return s.Lookups }},
            {desc("lookup_hits_total", "Lookups that found a live route"), counter, func(s hwmp.Stats) uint64 { return s.Hits }},
            {desc("lookup_misses_total", "Lookups that found no live route"), counter, func(s hwmp.Stats) uint64 { return s.Misses }},
            {desc("lookup_expired_total", "Misses caused by an expired route"), counter, func(s hwmp.Stats) uint64 { return s.Expired }},
            {desc("proactive_purged_total", "Expired proactive routes dropped by lookup"), counter, func(s hwmp.Stats) uint64 { return s.ProactivePurged }},
            {desc("deleted_total", "Routes explicitly deleted"), counter, func(s hwmp.Stats) uint64 { return s.Deleted }},
            {desc("precursors_added_total", "Precursor additions and refreshes"), counter, func(s hwmp.Stats) uint64 { return s.PrecursorsAdded }},
            {desc("link_failures_total", "Unreachable-destination scans"), counter, func(s hwmp.Stats) uint64 { return s.LinkFailures }},
        },
    }
}

// Describe implements prometheus.Collector.
func (c *TableCollector) Describe(ch chan<- *prometheus.Desc) {
    for _, m := range c.metrics {
        ch <- m.desc
    }
}

// Collect implements prometheus.Collector.
func (c *TableCollector) Collect(ch chan<- prometheus.Metric) {
    s := c.src.Stats()
    for _, m := range c.metrics {
        ch <- prometheus.MustNewConstMetric(m.desc, m.typ, float64(m.value(s)))
    }
}

// Register registers a collector for src with reg, or with the default
// registry when reg is nil.
func Register(reg prometheus.Registerer, namespace, node string, src StatsSource) (*TableCollector, error) {
    if reg == nil {
        reg = prometheus.DefaultRegisterer
    }
    c := NewTableCollector(namespace, node, src)
    if err := reg.Register(c); err != nil {
        return nil, err
    }
    return c, nil
}
