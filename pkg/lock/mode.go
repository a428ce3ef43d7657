package lock

// Mode identifies the lock strength requested by a sigil pair.
// It is a tagged variant rather than a boolean so that adding a third
// strength later does not require touching every call site.
type Mode uint8

const (
	// ModeNone marks an ordinary, undecorated literal or pattern.
	ModeNone Mode = iota
	// ModeFreeze is the deepest lock: non-extensible, all own properties
	// non-writable and non-configurable.
	ModeFreeze
	// ModeSeal is the shallower lock: non-extensible, existing own
	// properties non-configurable but still writable.
	ModeSeal
)

func (m Mode) String() string {
	switch m {
	case ModeFreeze:
		return "freeze"
	case ModeSeal:
		return "seal"
	default:
		return "none"
	}
}

// Primitive returns the host-language lock primitive for the mode.
// ModeNone has no primitive; callers must not ask for one.
func (m Mode) Primitive() string {
	switch m {
	case ModeFreeze:
		return "freeze"
	case ModeSeal:
		return "seal"
	default:
		return ""
	}
}

// Locked reports whether the mode requests any lock at all.
func (m Mode) Locked() bool {
	return m != ModeNone
}
