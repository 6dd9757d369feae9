package surface

import "go-surface/debug"

// Rebuilder coalesces rebuild triggers. The first trigger of a batch asks the
// host for a map rebuild; later triggers only record their reason until the
// host runs it.
type Rebuilder struct {
	request func()
	pending bool
	reasons []string

	requested int
	runs      int
}

// NewRebuilder forwards rebuild requests to request
func NewRebuilder(request func()) *Rebuilder {
	return &Rebuilder{request: request}
}

// Request marks a rebuild pending
func (r *Rebuilder) Request(reason string) {
	r.reasons = append(r.reasons, reason)
	if r.pending {
		return
	}
	r.pending = true
	r.requested++
	debug.Log("rebuild", "requested: %s", reason)
	r.request()
}

func (r *Rebuilder) Pending() bool {
	return r.pending
}

// Run executes fn and clears the pending flag. It runs even without a pending
// request, since the host may rebuild on its own.
func (r *Rebuilder) Run(fn func()) {
	if len(r.reasons) > 1 {
		debug.Log("rebuild", "coalesced %d triggers: %v", len(r.reasons), r.reasons)
	}
	r.pending = false
	r.reasons = nil
	r.runs++
	fn()
}

// Requested returns how many requests reached the host
func (r *Rebuilder) Requested() int {
	return r.requested
}

// Runs returns how many rebuilds ran
func (r *Rebuilder) Runs() int {
	return r.runs
}
