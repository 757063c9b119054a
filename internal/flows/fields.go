package flows

import (
	"fmt"
	"strconv"
	"strings"
)

// Fields is the mutable backing store the huh inputs of a flow bind to.
// Every value is kept as a string (the way it appears in the form); the
// data bag in the snapshot stores the same strings, so seeding a resumed
// flow is a straight copy. Confirm toggles are the one exception and live
// in a separate bool map.
type Fields struct {
	vals  map[string]*string
	bools map[string]*bool
}

// NewFields creates a Fields seeded from a snapshot data bag. Non-string
// bag values (numbers from hand-edited snapshots, bools) are rendered to
// their string/bool form.
func NewFields(seed map[string]any) *Fields {
	f := &Fields{
		vals:  make(map[string]*string),
		bools: make(map[string]*bool),
	}
	for k, v := range seed {
		switch tv := v.(type) {
		case string:
			f.set(k, tv)
		case bool:
			b := tv
			f.bools[k] = &b
		case float64:
			f.set(k, strconv.FormatFloat(tv, 'f', -1, 64))
		default:
			f.set(k, fmt.Sprint(tv))
		}
	}
	return f
}

func (f *Fields) set(key, value string) {
	v := value
	f.vals[key] = &v
}

// Val returns the pointer huh inputs bind to for key, creating an empty
// value on first use.
func (f *Fields) Val(key string) *string {
	if p, ok := f.vals[key]; ok {
		return p
	}
	f.set(key, "")
	return f.vals[key]
}

// Get returns the current trimmed value for key, or "" when unset.
func (f *Fields) Get(key string) string {
	if p, ok := f.vals[key]; ok {
		return strings.TrimSpace(*p)
	}
	return ""
}

// Bool returns the pointer huh confirms bind to for key, creating a false
// value on first use.
func (f *Fields) Bool(key string) *bool {
	if p, ok := f.bools[key]; ok {
		return p
	}
	b := false
	f.bools[key] = &b
	return f.bools[key]
}

// GetBool returns the current confirm value for key.
func (f *Fields) GetBool(key string) bool {
	if p, ok := f.bools[key]; ok {
		return *p
	}
	return false
}

// Bag collects the named keys into a partial data bag suitable for
// State.UpdateData. String fields are stored trimmed; bool fields keep
// their bool type. Unset keys are included as their zero value so a step
// that was cleared overwrites its earlier bag entries.
func (f *Fields) Bag(keys ...string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if p, ok := f.bools[k]; ok {
			out[k] = *p
			continue
		}
		out[k] = f.Get(k)
	}
	return out
}
