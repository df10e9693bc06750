package dump

import (
    "bytes"
    "errors"
    "reflect"
    "testing"
    "time"

    "hwmesh/pkg/hwmp"
    "hwmesh/pkg/mac"
    "hwmesh/pkg/simclock"
)

func sampleSnapshot() hwmp.Snapshot {
    clk := simclock.NewVirtual(time.Time{})
    t := hwmp.New(hwmp.Options{Clock: clk})
    t.AddReactivePath(mac.MustParse("02:00:00:00:00:02"), mac.MustParse("02:00:00:00:00:aa"), 1, 20, 4*time.Second, 7)
    t.AddReactivePath(mac.MustParse("02:00:00:00:00:01"), mac.MustParse("02:00:00:00:00:aa"), 1, 10, time.Second, 3)
    t.AddPrecursor(mac.MustParse("02:00:00:00:00:01"), 2, mac.MustParse("02:00:00:00:01:01"), time.Minute)
    t.AddProactivePath(5, mac.MustParse("02:00:00:00:00:f0"), mac.MustParse("02:00:00:00:00:bb"), hwmp.InterfaceAny, time.Minute, 42)
    clk.Advance(2 * time.Second)
    return t.Snapshot()
}

func TestCodecsPreserveSnapshot(t *testing.T) {
    reg, err := Default()
    if err != nil { t.Fatalf("default registry: %v", err) }
    in := sampleSnapshot()

    for _, f := range []string{"json", "cbor", "proto"} {
        c, err := reg.Get(f)
        if err != nil { t.Fatalf("get %s: %v", f, err) }
        b1, err := c.Encode(in)
        if err != nil { t.Fatalf("%s encode: %v", f, err) }
        b2, _ := c.Encode(in)
        if !bytes.Equal(b1, b2) { t.Fatalf("%s encoding is not deterministic", f) }
        out, err := c.Decode(b1)
        if err != nil { t.Fatalf("%s decode: %v", f, err) }
        if !reflect.DeepEqual(in, out) {
            t.Fatalf("%s mismatch:\n in=%#v\nout=%#v", f, in, out)
        }
    }
}

func TestProtoStructFields(t *testing.T) {
    st, err := ToStruct(sampleSnapshot())
    if err != nil { t.Fatalf("to struct: %v", err) }
    pro := st.Fields["proactive"].GetStructValue()
    if pro == nil { t.Fatalf("missing proactive route") }
    if got := pro.Fields["destination"].GetStringValue(); got != "02:00:00:00:00:f0" {
        t.Fatalf("root mismatch: %q", got)
    }
    if got := pro.Fields["interface"].GetNumberValue(); got != float64(hwmp.InterfaceAny) {
        t.Fatalf("interface mismatch: %v", got)
    }
    if n := len(st.Fields["reactive"].GetListValue().GetValues()); n != 2 {
        t.Fatalf("expected 2 reactive routes, got %d", n)
    }
}

func TestRegistryLookup(t *testing.T) {
    reg := NewRegistry()
    if c, err := reg.Get("application/x-protobuf"); err != nil || c.Format() != "proto" {
        t.Fatalf("content type lookup: %v %v", c, err)
    }
    if c, err := reg.Get(" JSON "); err != nil || c.ContentType() != "application/json" {
        t.Fatalf("name lookup: %v %v", c, err)
    }
    if _, err := reg.Get("cbor"); !errors.Is(err, ErrUnknownFormat) {
        t.Fatalf("cbor must be registered explicitly, got %v", err)
    }
    c, err := CBOR()
    if err != nil { t.Fatalf("new cbor: %v", err) }
    reg.Register(c)
    if got := reg.Formats(); !reflect.DeepEqual(got, []string{"cbor", "json", "proto"}) {
        t.Fatalf("formats: %v", got)
    }
}
