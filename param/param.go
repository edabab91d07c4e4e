// Package param defines the fixed parameter blocks exchanged with the
// firmware. Each block is a struct of u32 fields encoded little-endian
// after its TLV header.
package param

import (
	"github.com/pkg/errors"
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/tlv"
)

// Block is a fixed-size parameter block.
type Block interface {
	Tag() tlv.Tag
	Len() int
}

// Command is a block that starts a command buffer.
type Command interface {
	Block
	CmdID() wmi.CmdID
}

// Event is the fixed param block of a firmware event.
type Event interface {
	Block
	EventID() wmi.EventID
}

// Marshal writes the header and fields of b at the cursor.
func Marshal(w *tlv.Writer, b Block) error {
	if err := w.WriteHeader(tlv.EncodeHeader(b.Tag(), b.Len())); err != nil {
		return errors.Wrapf(err, "%v header", b.Tag())
	}
	if err := w.WriteStruct(b); err != nil {
		return errors.Wrapf(err, "%v fields", b.Tag())
	}
	return nil
}

// Unmarshal copies the fields of b out of a segment value. The value must
// be exactly b.Len() bytes.
func Unmarshal(value []byte, b Block) error {
	if len(value) != b.Len() {
		return errors.Wrapf(wmi.ErrMalformedHeader, "%v: length %v, layout wants %v", b.Tag(), len(value), b.Len())
	}
	if err := tlv.NewReader(value).ReadStruct(b); err != nil {
		return errors.Wrapf(wmi.ErrMalformedHeader, "%v: %v", b.Tag(), err)
	}
	return nil
}
