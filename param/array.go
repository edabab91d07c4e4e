package param

import "github.com/rigado/wmi/tlv"

// Uint32Array is a trailing ARRAY_UINT32 segment.
type Uint32Array []uint32

func (a Uint32Array) Tag() tlv.Tag { return tlv.TagArrayUint32 }
func (a Uint32Array) Len() int     { return 4 * len(a) }
