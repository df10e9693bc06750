// Package dump encodes routing table snapshots for diagnostics in one of
// several wire formats selected by name or content type.
package dump

import (
    "errors"
    "fmt"
    "sort"
    "strings"

    "hwmesh/pkg/hwmp"
)

// ErrUnknownFormat is returned when no codec matches the requested format.
var ErrUnknownFormat = errors.New("unknown dump format")

// Codec encodes and decodes table snapshots. Encoding must be deterministic
// so two dumps of the same table compare byte-for-byte.
type Codec interface {
    Format() string
    ContentType() string
    Encode(s hwmp.Snapshot) ([]byte, error)
    Decode(data []byte) (hwmp.Snapshot, error)
}

// Registry maps format names and content types to codecs.
type Registry struct{ byKey map[string]Codec }

// NewRegistry constructs a registry preloaded with the codecs that need no
// initialization: JSON and Protobuf. CBOR can be added via Register(CBOR()).
func NewRegistry() *Registry {
    r := &Registry{byKey: make(map[string]Codec)}
    r.Register(JSON())
    r.Register(Proto())
    return r
}

// Default returns a registry with every built-in codec.
func Default() (*Registry, error) {
    r := NewRegistry()
    c, err := CBOR()
    if err != nil {
        return nil, fmt.Errorf("init cbor codec: %w", err)
    }
    r.Register(c)
    return r, nil
}

// Register adds a codec under both its format name and content type.
func (r *Registry) Register(c Codec) {
    r.byKey[strings.ToLower(c.Format())] = c
    r.byKey[strings.ToLower(c.ContentType())] = c
}

// Get returns the codec for a format name ("json") or content type
// ("application/json").
func (r *Registry) Get(key string) (Codec, error) {
    c, ok := r.byKey[strings.ToLower(strings.TrimSpace(key))]
    if !ok {
        return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, key)
    }
    return c, nil
}

// Formats lists the registered format names, sorted.
func (r *Registry) Formats() []string {
    seen := make(map[string]struct{})
    for _, c := range r.byKey {
        seen[c.Format()] = struct{}{}
    }
    out := make([]string, 0, len(seen))
    for f := range seen {
        out = append(out, f)
    }
    sort.Strings(out)
    return out
}
