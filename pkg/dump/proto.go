package dump

import (
    "encoding/json"
    "fmt"

    "google.golang.org/protobuf/proto"
    "google.golang.org/protobuf/types/known/structpb"

    "hwmesh/pkg/hwmp"
)

type protoCodec struct {
    mo proto.MarshalOptions
    uo proto.UnmarshalOptions
}

// Proto returns a Protocol Buffers codec with deterministic marshaling.
// Snapshots travel as a google.protobuf.Struct shaped like the JSON dump.
// Content-Type: application/x-protobuf
func Proto() Codec {
    return protoCodec{
        mo: proto.MarshalOptions{Deterministic: true},
        uo: proto.UnmarshalOptions{},
    }
}

func (protoCodec) Format() string      { return "proto" }
func (protoCodec) ContentType() string { return "application/x-protobuf" }

func (p protoCodec) Encode(s hwmp.Snapshot) ([]byte, error) {
    st, err := ToStruct(s)
    if err != nil {
        return nil, err
    }
    return p.mo.Marshal(st)
}

func (p protoCodec) Decode(data []byte) (hwmp.Snapshot, error) {
    var st structpb.Struct
    if err := p.uo.Unmarshal(data, &st); err != nil {
        return hwmp.Snapshot{}, fmt.Errorf("protobuf: %w", err)
    }
    b, err := json.Marshal(st.AsMap())
    if err != nil {
        return hwmp.Snapshot{}, fmt.Errorf("protobuf: %w", err)
    }
    var s hwmp.Snapshot
    if err := json.Unmarshal(b, &s); err != nil {
        return hwmp.Snapshot{}, fmt.Errorf("protobuf: %w", err)
    }
    return s, nil
}

// ToStruct converts a snapshot to a protobuf Struct using its JSON field
// names. Numbers become doubles, which is exact for millisecond values.
func ToStruct(s hwmp.Snapshot) (*structpb.Struct, error) {
    b, err := json.Marshal(s)
    if err != nil {
        return nil, fmt.Errorf("protobuf: %w", err)
    }
    var m map[string]any
    if err := json.Unmarshal(b, &m); err != nil {
        return nil, fmt.Errorf("protobuf: %w", err)
    }
    st, err := structpb.NewStruct(m)
    if err != nil {
        return nil, fmt.Errorf("protobuf: %w", err)
    }
    return st, nil
}
