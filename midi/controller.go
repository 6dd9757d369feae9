package midi

// Controller is a connected control surface: raw frames in, raw frames out
type Controller interface {
	ID() string

	// Frames delivers every frame received from the controller
	Frames() <-chan []byte

	// Send writes one frame to the controller
	Send(frame []byte) error

	// Lifecycle
	Close() error
}
