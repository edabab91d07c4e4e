// Package capture records command and event traffic as a CBOR sequence and
// reads it back.
package capture

import (
	"io"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"github.com/rigado/wmi"
)

// Dir is the direction of a record.
type Dir uint8

const (
	DirTx Dir = iota + 1
	DirRx
	DirTrace
)

func (d Dir) String() string {
	switch d {
	case DirTx:
		return "tx"
	case DirRx:
		return "rx"
	case DirTrace:
		return "trace"
	}
	return "unknown"
}

// Record is one captured frame. ID is a command id for tx and trace records
// and an event id for rx records.
type Record struct {
	Seq    uint64     `cbor:"1,keyasint" json:"seq"`
	Time   int64      `cbor:"2,keyasint" json:"time"`
	Dir    Dir        `cbor:"3,keyasint" json:"dir"`
	ID     uint32     `cbor:"4,keyasint" json:"id"`
	Status wmi.Status `cbor:"5,keyasint,omitempty" json:"status,omitempty"`
	Vdev   uint32     `cbor:"6,keyasint,omitempty" json:"vdev,omitempty"`
	Arg    uint32     `cbor:"7,keyasint,omitempty" json:"arg,omitempty"`
	Data   []byte     `cbor:"8,keyasint,omitempty" json:"data,omitempty"`
}

var encMode cbor.EncMode
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("capture: cbor encoder: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("capture: cbor decoder: " + err.Error())
	}
}

// Recorder appends records to a writer. It is safe for concurrent use and
// also serves as a command tracer.
type Recorder struct {
	mu     sync.Mutex
	enc    *cbor.Encoder
	seq    uint64
	now    func() time.Time
	logger wmi.Logger
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{
		enc:    encMode.NewEncoder(w),
		now:    time.Now,
		logger: wmi.GetLogger().ChildLogger(map[string]interface{}{"pkg": "capture"}),
	}
}

// Record stamps rec with the next sequence number and the current time and
// writes it.
func (r *Recorder) Record(rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	rec.Seq = r.seq
	rec.Time = r.now().UnixNano()
	return errors.Wrap(r.enc.Encode(rec), "can't write record")
}

func (r *Recorder) record(rec Record) {
	if err := r.Record(rec); err != nil {
		r.logger.Errorf("%v %#x: %v", rec.Dir, rec.ID, err)
	}
}

func (r *Recorder) Trace(cmd wmi.CmdID, vdevID uint32, data uint32) {
	r.record(Record{Dir: DirTrace, ID: uint32(cmd), Vdev: vdevID, Arg: data})
}

// Reader reads records back in order.
type Reader struct {
	dec *cbor.Decoder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: decMode.NewDecoder(r)}
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	var rec Record
	if err := r.dec.Decode(&rec); err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, errors.Wrap(err, "can't read record")
	}
	return rec, nil
}

// Replay hands every rx record to h, in order, and returns how many it
// delivered.
func Replay(r *Reader, h func(wmi.EventID, []byte)) (int, error) {
	var n int
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if rec.Dir != DirRx {
			continue
		}
		h(wmi.EventID(rec.ID), rec.Data)
		n++
	}
}
