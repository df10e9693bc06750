// Package scenario replays timed mesh events against a routing table on a
// virtual clock. It plays the part of the HWMP protocol engine: it decides
// when paths are added, looked up and torn down, and builds the route error
// a link failure produces.
package scenario

import (
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/spf13/viper"
)

// Event kinds.
const (
    KindAdvance         = "advance"
    KindReactive        = "reactive"
    KindProactive       = "proactive"
    KindPrecursor       = "precursor"
    KindForward         = "forward"
    KindLinkDown        = "link_down"
    KindDeleteReactive  = "delete_reactive"
    KindDeleteProactive = "delete_proactive"
)

// ErrUnknownEvent is returned for an event kind the runner does not handle.
var ErrUnknownEvent = errors.New("unknown scenario event")

// Scenario is an ordered list of events.
//
// Example YAML:
// name: two-hop
// events:
//   - {event: reactive, dst: "02:00:00:00:00:03", via: "02:00:00:00:00:02", metric: 20, seqnum: 1}
//   - {event: precursor, dst: "02:00:00:00:00:03", precursor: "02:00:00:00:00:09"}
//   - {event: advance, by: 2s}
//   - {event: link_down, peer: "02:00:00:00:00:02"}
type Scenario struct {
    Name   string  `mapstructure:"name"`
    Events []Event `mapstructure:"events"`
}

// Event is one step of a scenario. Fields irrelevant to Kind are ignored.
// A zero Lifetime means the configured default for the route kind.
type Event struct {
    Kind string `mapstructure:"event"`
    // At, when set, moves the clock to scenario start + At before the event.
    At time.Duration `mapstructure:"at"`
    // By is the step of an advance event.
    By time.Duration `mapstructure:"by"`

    Dst       string        `mapstructure:"dst"`
    Root      string        `mapstructure:"root"`
    Via       string        `mapstructure:"via"`
    Peer      string        `mapstructure:"peer"`
    Precursor string        `mapstructure:"precursor"`
    Iface     uint32        `mapstructure:"iface"`
    Metric    uint32        `mapstructure:"metric"`
    SeqNum    uint32        `mapstructure:"seqnum"`
    Lifetime  time.Duration `mapstructure:"lifetime"`
}

// Load reads a scenario file; the format follows the file extension
// (yaml, json, toml).
func Load(path string) (*Scenario, error) {
    v := viper.New()
    v.SetConfigFile(path)
    if err := v.ReadInConfig(); err != nil {
        return nil, fmt.Errorf("read scenario: %w", err)
    }
    var sc Scenario
    if err := v.Unmarshal(&sc); err != nil {
        return nil, fmt.Errorf("decode scenario: %w", err)
    }
    for i := range sc.Events {
        sc.Events[i].Kind = strings.ToLower(strings.TrimSpace(sc.Events[i].Kind))
    }
    return &sc, nil
}
