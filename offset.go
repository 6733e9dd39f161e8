package sc13dg

import (
	"encoding/json"
	"strconv"
)

// Offset is a byte position in normalized filing text, or NotFound.
// The zero value is NotFound, so a position of 0 is never ambiguous.
type Offset struct {
	pos   int
	found bool
}

// NotFound marks a boundary whose pattern did not match.
var NotFound = Offset{}

// At returns a found offset at pos.
func At(pos int) Offset {
	return Offset{pos: pos, found: true}
}

// Found reports whether the offset holds a position.
func (o Offset) Found() bool {
	return o.found
}

// Get returns the position and whether it was found.
func (o Offset) Get() (int, bool) {
	return o.pos, o.found
}

// Or returns the position, or def when not found.
func (o Offset) Or(def int) int {
	if o.found {
		return o.pos
	}
	return def
}

// Int returns the position, or -1 when not found. This is the persisted form.
func (o Offset) Int() int {
	return o.Or(-1)
}

// Add shifts a found offset by n. NotFound stays NotFound.
func (o Offset) Add(n int) Offset {
	if !o.found {
		return o
	}
	return At(o.pos + n)
}

func (o Offset) String() string {
	if !o.found {
		return "NotFound"
	}
	return strconv.Itoa(o.pos)
}

// MarshalJSON encodes NotFound as -1.
func (o Offset) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Int())
}

// UnmarshalJSON decodes any negative number as NotFound.
func (o *Offset) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if n < 0 {
		*o = NotFound
	} else {
		*o = At(n)
	}
	return nil
}

// earliest returns the smallest found offset.
func earliest(offsets ...Offset) Offset {
	result := NotFound
	for _, o := range offsets {
		if o.found && (!result.found || o.pos < result.pos) {
			result = o
		}
	}
	return result
}

// latest returns the largest found offset.
func latest(offsets ...Offset) Offset {
	result := NotFound
	for _, o := range offsets {
		if o.found && (!result.found || o.pos > result.pos) {
			result = o
		}
	}
	return result
}

// firstFound returns the first found offset in argument order.
func firstFound(offsets ...Offset) Offset {
	for _, o := range offsets {
		if o.found {
			return o
		}
	}
	return NotFound
}
