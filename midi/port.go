package midi

import (
	"sync/atomic"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-surface/debug"
)

var sendCount uint64

// Port is a controller reached through a named input/output port pair
type Port struct {
	id       string
	inPort   drivers.In
	outPort  drivers.Out
	send     func(msg gomidi.Message) error
	stopFunc func()

	frames chan []byte
}

// OpenPort opens the named ports. Either name may be empty for a one-way port.
func OpenPort(inName, outName string) (*Port, error) {
	p := &Port{
		id:     inName,
		frames: make(chan []byte, 64),
	}
	if p.id == "" {
		p.id = outName
	}

	if outName != "" {
		out, err := gomidi.FindOutPort(outName)
		if err != nil {
			return nil, errors.Wrapf(err, "find output %q", outName)
		}
		send, err := gomidi.SendTo(out)
		if err != nil {
			return nil, errors.Wrapf(err, "open output %q", outName)
		}
		p.outPort = out
		p.send = send
	}

	if inName != "" {
		in, err := gomidi.FindInPort(inName)
		if err != nil {
			return nil, errors.Wrapf(err, "find input %q", inName)
		}
		stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
			frame := append([]byte(nil), msg.Bytes()...)
			select {
			case p.frames <- frame:
			default:
				debug.Log("port", "input buffer full, dropped %v", frame)
			}
		})
		if err != nil {
			return nil, errors.Wrapf(err, "open input %q", inName)
		}
		p.inPort = in
		p.stopFunc = stop
	}

	return p, nil
}

func (p *Port) ID() string {
	return p.id
}

func (p *Port) Frames() <-chan []byte {
	return p.frames
}

// Send writes a frame. Without an output port it is a no-op.
func (p *Port) Send(frame []byte) error {
	if p.send == nil {
		return nil
	}
	atomic.AddUint64(&sendCount, 1)
	return p.send(gomidi.Message(frame))
}

// Sent returns the number of frames sent by all ports
func Sent() uint64 {
	return atomic.LoadUint64(&sendCount)
}

func (p *Port) Close() error {
	if p.stopFunc != nil {
		p.stopFunc()
	}
	close(p.frames)
	return nil
}
