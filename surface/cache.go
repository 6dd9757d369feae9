package surface

import "go-surface/debug"

// Attribute names a mirrored value in the shadow cache
type Attribute int

const (
	AttrMute Attribute = iota
	AttrSolo
	AttrArm
	AttrMonitor
	AttrLaunch
	AttrStop
	AttrPanCentered
	AttrCrossfade
	AttrSelected
	AttrParameter
	AttrTransport
	AttrView
)

var attrNames = [...]string{
	"mute", "solo", "arm", "monitor", "launch", "stop", "pan-centered",
	"crossfade", "selected", "parameter", "transport", "view",
}

func (a Attribute) String() string {
	if int(a) < len(attrNames) {
		return attrNames[a]
	}
	return "unknown"
}

// Key identifies one cached value. Control distinguishes several values on
// one address (the controller number of a parameter binding, or the
// transport/view LED).
type Key struct {
	Attr    Attribute
	Addr    Address
	Control int
}

// Cache remembers the last value sent for every key and drops sends that
// would repeat it.
type Cache struct {
	values map[Key]int
	send   func(frame []byte)
	sent   int
}

// NewCache creates an empty cache that writes frames through send
func NewCache(send func(frame []byte)) *Cache {
	return &Cache{
		values: make(map[Key]int),
		send:   send,
	}
}

// EmitIfChanged stores value and sends encode(value) when value differs from
// the cached entry or no entry exists. It reports whether anything was sent.
func (c *Cache) EmitIfChanged(key Key, value int, encode func(value int) [][]byte) bool {
	if prev, ok := c.values[key]; ok && prev == value {
		return false
	}
	c.values[key] = value
	for _, frame := range encode(value) {
		c.send(frame)
		c.sent++
	}
	return true
}

// Get returns the cached value for key
func (c *Cache) Get(key Key) (int, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Reset forgets every entry, so the next push re-sends everything
func (c *Cache) Reset() {
	debug.Log("cache", "reset %d entries", len(c.values))
	c.values = make(map[Key]int)
}

func (c *Cache) Len() int {
	return len(c.values)
}

// Sent returns the number of frames sent through the cache
func (c *Cache) Sent() int {
	return c.sent
}

func boolValue(b bool) int {
	if b {
		return 1
	}
	return 0
}
