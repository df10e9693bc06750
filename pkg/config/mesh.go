package config

import "time"

// NodeConfig describes the local mesh station.
type NodeConfig struct {
    // Address is the station's own MAC-48 address.
    Address string `mapstructure:"address"`
    // Interfaces is the number of mesh interfaces; interface ids are 0..n-1.
    Interfaces int `mapstructure:"interfaces"`
}

// TableConfig tunes the routing table and the lifetimes applied when an
// event does not carry its own.
//
// Example YAML:
// table:
//   btree_degree: 16
//   reactive_lifetime: 5s
//   proactive_lifetime: 10s
//   precursor_lifetime: 5s
type TableConfig struct {
    BTreeDegree       int           `mapstructure:"btree_degree"`
    ReactiveLifetime  time.Duration `mapstructure:"reactive_lifetime"`
    ProactiveLifetime time.Duration `mapstructure:"proactive_lifetime"`
    PrecursorLifetime time.Duration `mapstructure:"precursor_lifetime"`
}

// SimConfig drives hwmp-sim.
type SimConfig struct {
    // Scenario is the path of the event file to replay.
    Scenario string `mapstructure:"scenario"`
    // DumpFormat selects the table dump codec: json, cbor or proto.
    DumpFormat string `mapstructure:"dump_format"`
}

// MetricsConfig controls the Prometheus endpoint of hwmp-sim.
type MetricsConfig struct {
    Enable    bool   `mapstructure:"enable"`
    Listen    string `mapstructure:"listen"`
    Namespace string `mapstructure:"namespace"`
}
