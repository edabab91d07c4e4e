package loopback

import (
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/tlv"
)

// EchoRule turns a command into an event with the same bytes, the first
// header retagged.
type EchoRule struct {
	Event wmi.EventID
	Tag   tlv.Tag
}

// Echo answers commands by retagging them per rule. Commands without a rule
// get no answer.
type Echo map[wmi.CmdID]EchoRule

// ElnaEcho echoes a SET_ELNA_BYPASS command back as the GET_ELNA_BYPASS
// event, whose layout is the same.
var ElnaEcho = Echo{
	wmi.CmdSetElnaBypass: {Event: wmi.EventGetElnaBypass, Tag: tlv.TagGetElnaBypassEvent},
}

func (e Echo) Respond(cmd wmi.CmdID, payload []byte) []Event {
	r, ok := e[cmd]
	if !ok {
		return nil
	}
	h, err := tlv.DecodeHeader(payload)
	if err != nil {
		return nil
	}

	b := append([]byte(nil), payload...)
	h.Tag = r.Tag
	_ = h.Put(b)
	return []Event{{ID: r.Event, Payload: b}}
}
