package param

import (
	"github.com/rigado/wmi"
	"github.com/rigado/wmi/tlv"
)

// Descriptor is the static wire encoding of one command.
type Descriptor struct {
	CmdID   wmi.CmdID
	Tag     tlv.Tag
	Len     int
	Feature wmi.Feature
}

// EventDescriptor is the static wire encoding of one event.
type EventDescriptor struct {
	EventID wmi.EventID
	Tag     tlv.Tag
	Len     int
	Feature wmi.Feature
}

var commands = map[wmi.CmdID]Descriptor{}
var events = map[wmi.EventID]EventDescriptor{}

func init() {
	for _, c := range []struct {
		c Command
		f wmi.Feature
	}{
		{&SetElnaBypass{}, wmi.FeatureELNA},
		{&GetElnaBypass{}, wmi.FeatureELNA},
		{&TdlsSetOffchanMode{}, wmi.FeatureTDLS},
		{&TdlsGetStatus{}, wmi.FeatureTDLS},
	} {
		commands[c.c.CmdID()] = Descriptor{CmdID: c.c.CmdID(), Tag: c.c.Tag(), Len: c.c.Len(), Feature: c.f}
	}

	for _, e := range []struct {
		e Event
		f wmi.Feature
	}{
		{&GetElnaBypassEvent{}, wmi.FeatureELNA},
		{&TdlsStatusEvent{}, wmi.FeatureTDLS},
	} {
		events[e.e.EventID()] = EventDescriptor{EventID: e.e.EventID(), Tag: e.e.Tag(), Len: e.e.Len(), Feature: e.f}
	}
}

// Lookup returns the descriptor of a command.
func Lookup(id wmi.CmdID) (Descriptor, bool) {
	d, ok := commands[id]
	return d, ok
}

// LookupEvent returns the descriptor of an event.
func LookupEvent(id wmi.EventID) (EventDescriptor, bool) {
	d, ok := events[id]
	return d, ok
}

// Matches reports whether c is the fixed param layout of d.
func (d Descriptor) Matches(c Command) bool {
	return c.CmdID() == d.CmdID && c.Tag() == d.Tag && c.Len() == d.Len
}

// NewEvent returns an empty fixed param block for id, for decoding.
func NewEvent(id wmi.EventID) (Event, bool) {
	switch id {
	case wmi.EventGetElnaBypass:
		return &GetElnaBypassEvent{}, true
	case wmi.EventTdlsStatus:
		return &TdlsStatusEvent{}, true
	}
	return nil, false
}

// NewCommand returns an empty fixed param block for id, for decoding
// captured or echoed command buffers.
func NewCommand(id wmi.CmdID) (Command, bool) {
	switch id {
	case wmi.CmdSetElnaBypass:
		return &SetElnaBypass{}, true
	case wmi.CmdGetElnaBypass:
		return &GetElnaBypass{}, true
	case wmi.CmdTdlsSetOffchanMode:
		return &TdlsSetOffchanMode{}, true
	case wmi.CmdTdlsGetStatus:
		return &TdlsGetStatus{}, true
	}
	return nil, false
}
