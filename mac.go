package wmi

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// MacAddr is a peer hardware address in transmission order.
type MacAddr [6]byte

// NewMacAddr parses "aa:bb:cc:dd:ee:ff"; separators are optional.
func NewMacAddr(s string) (MacAddr, error) {
	hexStr := strings.Replace(strings.ToLower(s), ":", "", -1)
	hexStr = strings.Replace(hexStr, "-", "", -1)

	out, err := hex.DecodeString(hexStr)
	if err != nil {
		return MacAddr{}, fmt.Errorf("invalid mac %q: %v", s, err)
	}
	if len(out) != len(MacAddr{}) {
		return MacAddr{}, fmt.Errorf("invalid mac %q: want 6 bytes, have %v", s, len(out))
	}

	var a MacAddr
	copy(a[:], out)
	return a, nil
}

func (a MacAddr) String() string {
	parts := make([]string, len(a))
	for i, b := range a {
		parts[i] = hex.EncodeToString([]byte{b})
	}
	return strings.Join(parts, ":")
}

func (a MacAddr) Bytes() []byte {
	return a[:]
}

// MarshalText lets MacAddr print as a string in JSON output.
func (a MacAddr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
