// Package mac holds the 48-bit hardware address used to name mesh stations,
// together with its 64-bit integer key form used for ordered storage.
package mac

import (
    "errors"
    "fmt"
    "net"
    "strings"
)

// Size is the number of octets in a hardware address.
const Size = 6

// Address is an IEEE 802 MAC-48 address. The zero value is Unspecified.
type Address [Size]byte

var (
    // Unspecified is the "no address" sentinel (00:00:00:00:00:00).
    Unspecified = Address{}
    // Broadcast is ff:ff:ff:ff:ff:ff.
    Broadcast = Address{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
)

// ErrInvalidAddress is returned by Parse for malformed input.
var ErrInvalidAddress = errors.New("invalid hardware address")

// IsUnspecified reports whether a is the all-zero address.
func (a Address) IsUnspecified() bool { return a == Unspecified }

// IsBroadcast reports whether a is the broadcast address.
func (a Address) IsBroadcast() bool { return a == Broadcast }

// Uint64 packs the address into the low 48 bits of a uint64, octet 0 being
// the most significant. Ordering of keys matches lexicographic octet order.
func (a Address) Uint64() uint64 {
    var v uint64
    for i := 0; i < Size; i++ {
        v = v<<8 | uint64(a[i])
    }
    return v
}

// FromUint64 is the inverse of Address.Uint64; bits above 48 are ignored.
func FromUint64(v uint64) Address {
    var a Address
    for i := Size - 1; i >= 0; i-- {
        a[i] = byte(v)
        v >>= 8
    }
    return a
}

// String renders the address as lower-case colon separated hex.
func (a Address) String() string {
    return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3], a[4], a[5])
}

// Parse accepts the forms understood by net.ParseMAC, restricted to 48-bit
// addresses: "aa:bb:cc:dd:ee:ff", "aa-bb-cc-dd-ee-ff", "aabb.ccdd.eeff".
func Parse(s string) (Address, error) {
    var a Address
    hw, err := net.ParseMAC(strings.TrimSpace(s))
    if err != nil || len(hw) != Size {
        return a, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
    }
    copy(a[:], hw)
    return a, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Address {
    a, err := Parse(s)
    if err != nil {
        panic(err)
    }
    return a
}

// MarshalText implements encoding.TextMarshaler so addresses render as
// strings in JSON/CBOR dumps and config.
func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(b []byte) error {
    v, err := Parse(string(b))
    if err != nil {
        return err
    }
    *a = v
    return nil
}
