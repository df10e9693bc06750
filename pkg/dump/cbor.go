package dump

import (
    cbor "github.com/fxamacker/cbor/v2"

    "hwmesh/pkg/hwmp"
)

type cborCodec struct {
    enc cbor.EncMode
    dec cbor.DecMode
}

// CBOR returns a deterministic CBOR codec (RFC 8949) with core profile.
func CBOR() (Codec, error) {
    em, err := cbor.CoreDetEncOptions().EncMode()
    if err != nil {
        return nil, err
    }
    dm, err := cbor.DecOptions{}.DecMode()
    if err != nil {
        return nil, err
    }
    return cborCodec{enc: em, dec: dm}, nil
}

func (cborCodec) Format() string      { return "cbor" }
func (cborCodec) ContentType() string { return "application/cbor" }

func (c cborCodec) Encode(s hwmp.Snapshot) ([]byte, error) { return c.enc.Marshal(s) }

func (c cborCodec) Decode(data []byte) (hwmp.Snapshot, error) {
    var s hwmp.Snapshot
    err := c.dec.Unmarshal(data, &s)
    return s, err
}
