// Package ownership decides which servers-section entries mcpconf manages.
//
// A [Tracker] answers "did we create this entry?". Clients that keep no
// bookkeeping use [Implicit], under which every entry is managed. Clients
// that share their config with other tools use a [Sidecar] file next to
// the config, and entries it does not list are external: mcpconf neither
// overwrites nor removes them.
package ownership

import (
	"time"
)

// Record is the bookkeeping kept for one managed entry.
type Record struct {
	ServerType string    `json:"server_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Tracker classifies entries as managed or external.
type Tracker interface {
	// Load reads persisted ownership state. It must be called before the
	// other methods reflect what is on disk.
	Load() error

	// Save persists ownership state.
	Save() error

	// Separated reports whether ownership is tracked apart from the config,
	// so entries can be external.
	Separated() bool

	// Managed reports whether the named entry belongs to mcpconf.
	Managed(name string) bool

	// Lookup returns the record for a managed entry, if one is kept.
	Lookup(name string) (Record, bool)

	// Record marks name as managed and created from serverType.
	Record(name, serverType string)

	// Forget drops name from the managed set.
	Forget(name string)

	// Names lists the recorded entries in sorted order.
	Names() []string
}

// Implicit treats every entry as managed and persists nothing.
type Implicit struct{}

var _ Tracker = Implicit{}

func (Implicit) Load() error                  { return nil }
func (Implicit) Save() error                  { return nil }
func (Implicit) Separated() bool              { return false }
func (Implicit) Managed(string) bool          { return true }
func (Implicit) Lookup(string) (Record, bool) { return Record{}, false }
func (Implicit) Record(string, string)        {}
func (Implicit) Forget(string)                {}
func (Implicit) Names() []string              { return nil }
