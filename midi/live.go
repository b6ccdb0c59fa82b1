package midi

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jsphweid/chordcoach/log"
	"github.com/jsphweid/chordcoach/model"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// NOTE: a driver has to be registered by the binary, see cmd/practice.go

// Ports lists the names of the available input ports.
func Ports() []string {
	var res []string
	for _, in := range gomidi.GetInPorts() {
		res = append(res, in.String())
	}
	return res
}

// Open finds an input port by number or name. An empty name opens the
// first port.
func Open(name string) (drivers.In, error) {
	if name == "" {
		name = "0"
	}
	if n, err := strconv.Atoi(name); err == nil {
		in, err := gomidi.InPort(n)
		if err != nil {
			return nil, fmt.Errorf("no midi input %d: %w", n, err)
		}
		return in, nil
	}
	in, err := gomidi.FindInPort(name)
	if err != nil {
		return nil, fmt.Errorf("no midi input %q: %w", name, err)
	}
	return in, nil
}

// Listen forwards note messages from in to fn, stamped with the wall clock
// at arrival. fn runs on the driver's goroutine.
func Listen(in drivers.In, fn func(model.RawEvent)) (stop func(), err error) {
	log.MIDI.Printf("listening on %s", in.String())
	return gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		ev, ok := ToRawEvent(msg, time.Now())
		if !ok {
			return
		}
		log.MIDI.Debugf("note %d press=%v vel=%d", ev.Note, ev.IsPress, ev.Velocity)
		fn(ev)
	})
}

func Close() {
	gomidi.CloseDriver()
}
