package dump

import (
    "encoding/json"

    "hwmesh/pkg/hwmp"
)

type jsonCodec struct{ indent bool }

// JSON returns a JSON codec (RFC 8259). Content-Type: application/json
func JSON() Codec { return jsonCodec{indent: true} }

func (jsonCodec) Format() string      { return "json" }
func (jsonCodec) ContentType() string { return "application/json" }

func (c jsonCodec) Encode(s hwmp.Snapshot) ([]byte, error) {
    if c.indent {
        return json.MarshalIndent(s, "", "  ")
    }
    return json.Marshal(s)
}

func (jsonCodec) Decode(data []byte) (hwmp.Snapshot, error) {
    var s hwmp.Snapshot
    err := json.Unmarshal(data, &s)
    return s, err
}
