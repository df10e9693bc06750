package hwmp

import (
    "math/rand"
    "testing"
    "time"

    "hwmesh/pkg/mac"
    "hwmesh/pkg/simclock"
)

func benchTable(n int) (*Table, []mac.Address) {
    tb := New(Options{Clock: simclock.NewVirtual(time.Time{})})
    dsts := make([]mac.Address, n)
    via := mac.MustParse("02:00:00:00:00:02")
    for i := range dsts {
        dsts[i] = mac.FromUint64(0x020000000000 | uint64(i))
        tb.AddReactivePath(dsts[i], via, 0, 10, time.Minute, 1)
    }
    return tb, dsts
}

func BenchmarkLookupReactive(b *testing.B) {
    tb, dsts := benchTable(4096)
    b.ReportAllocs()
    b.ResetTimer()
    for i := 0; i < b.N; i++ {
        tb.LookupReactive(dsts[rand.Intn(len(dsts))])
    }
}

func BenchmarkAddReactivePath_Refresh(b *testing.B) {
    tb, dsts := benchTable(4096)
    via := mac.MustParse("02:00:00:00:00:04")
    b.ReportAllocs()
    b.ResetTimer()
    for i := 0; i < b.N; i++ {
        // seqnum grows so every call replaces the stored route
        tb.AddReactivePath(dsts[i%len(dsts)], via, 1, 10, time.Minute, uint32(i/len(dsts)+2))
    }
}

func BenchmarkGetUnreachableDestinations(b *testing.B) {
    tb, _ := benchTable(4096)
    peer := mac.MustParse("02:00:00:00:00:02")
    b.ReportAllocs()
    b.ResetTimer()
    for i := 0; i < b.N; i++ {
        _ = tb.GetUnreachableDestinations(peer)
    }
}
