package surface

import "fmt"

// RoleKind is the logical function of a physical address
type RoleKind int

const (
	RoleTrack RoleKind = iota
	RoleSend
	RoleMaster
	RoleGlobal
	RoleSelected
)

func (k RoleKind) String() string {
	switch k {
	case RoleTrack:
		return "track"
	case RoleSend:
		return "send"
	case RoleMaster:
		return "master"
	case RoleGlobal:
		return "global"
	case RoleSelected:
		return "selected"
	}
	return "unknown"
}

// Role is a logical slot: Track(0..n), Send(0..1), Master, Global or Selected
type Role struct {
	Kind  RoleKind
	Index int
}

func (r Role) String() string {
	switch r.Kind {
	case RoleTrack, RoleSend:
		return fmt.Sprintf("%s%d", r.Kind, r.Index+1)
	}
	return r.Kind.String()
}

func TrackRole(i int) Role { return Role{Kind: RoleTrack, Index: i} }
func SendRole(i int) Role  { return Role{Kind: RoleSend, Index: i} }

var (
	MasterRole   = Role{Kind: RoleMaster}
	GlobalRole   = Role{Kind: RoleGlobal}
	SelectedRole = Role{Kind: RoleSelected}
)

// NoStrip marks an address that owns a whole channel
const NoStrip = -1

// Address is a physical location on the surface: a MIDI channel and, for
// controllers that put several strips on one channel, the strip within it.
type Address struct {
	Channel uint8
	Strip   int
}

func (a Address) String() string {
	if a.Strip == NoStrip {
		return fmt.Sprintf("ch%d", a.Channel)
	}
	return fmt.Sprintf("ch%d/%d", a.Channel, a.Strip)
}

// AddressEntry is one row of a layout table
type AddressEntry struct {
	Role    Role
	Address Address
}

// AddressMap is a fixed bijection between roles and addresses
type AddressMap struct {
	entries []AddressEntry
	byRole  map[Role]Address
	byAddr  map[Address]Role
}

// NewAddressMap builds the bijection. A duplicate role or address, or a
// channel outside 0-15, is a programming error and panics.
func NewAddressMap(entries []AddressEntry) *AddressMap {
	m := &AddressMap{
		entries: append([]AddressEntry(nil), entries...),
		byRole:  make(map[Role]Address, len(entries)),
		byAddr:  make(map[Address]Role, len(entries)),
	}
	for _, e := range entries {
		if e.Address.Channel > 15 {
			panic(fmt.Sprintf("surface: role %s on channel %d", e.Role, e.Address.Channel))
		}
		if e.Address.Strip < NoStrip {
			panic(fmt.Sprintf("surface: role %s on strip %d", e.Role, e.Address.Strip))
		}
		if _, dup := m.byRole[e.Role]; dup {
			panic(fmt.Sprintf("surface: duplicate role %s", e.Role))
		}
		if other, dup := m.byAddr[e.Address]; dup {
			panic(fmt.Sprintf("surface: %s and %s share address %s", other, e.Role, e.Address))
		}
		m.byRole[e.Role] = e.Address
		m.byAddr[e.Address] = e.Role
	}
	return m
}

// Address returns the fixed address of r. Unknown roles panic.
func (m *AddressMap) Address(r Role) Address {
	a, ok := m.byRole[r]
	if !ok {
		panic(fmt.Sprintf("surface: unknown role %s", r))
	}
	return a
}

// Role resolves a physical address
func (m *AddressMap) Role(a Address) (Role, bool) {
	r, ok := m.byAddr[a]
	return r, ok
}

// Strips returns the roles that receive a track slot, in layout order
func (m *AddressMap) Strips() []Role {
	var out []Role
	for _, e := range m.entries {
		switch e.Role.Kind {
		case RoleTrack, RoleSend, RoleMaster:
			out = append(out, e.Role)
		}
	}
	return out
}

// Entries returns the layout table
func (m *AddressMap) Entries() []AddressEntry {
	return append([]AddressEntry(nil), m.entries...)
}

func (m *AddressMap) Len() int {
	return len(m.entries)
}
