// Package event holds the classes the round-trip tests stream through the
// dictionary in event_dict.go.
package event

import "github.com/seitarof/gen-dict/wire"

//go:generate go run github.com/seitarof/gen-dict/cmd/gen-dict -f -o event_dict.go . event.rules

// Color is streamed as a 4-byte integer.
type Color int32

const (
	Red Color = iota
	Green
	Blue
)

// P holds N positions and a few loose values.
//
//dict:version 1
type P struct {
	N  int32
	Xs []float32 `dict:"[N]"`
	V  []int32
	S  string
}

// Q is P with a position pointer nothing sizes.
//
//dict:version 1
type Q struct {
	N  int32
	Xs *float32
	V  []int32
	S  string
}

//dict:version 1
type Point struct {
	X, Y float64
}

// Object is the common base of tracks.
//
//dict:version 1
type Object struct {
	ID   uint32
	Bits uint32
}

//dict:version 2
type Track struct {
	Object
	N      int32
	Xs     []float64 `dict:"[N]"` // hit positions
	E      wire.Double32
	Color  Color
	Grid   [2][3]int16
	Origin Point
	Hits   wire.List[int32]
	Tags   map[string]int16
	Next   *Point
	Label  *string
	Cache  float64 //! recomputed on read
}

// Destruct clears the hit list.
func (t *Track) Destruct() { t.Hits.Clear() }

// Merge adds the hits of every track in list.
func (t *Track) Merge(list []any) (int64, error) {
	for _, o := range list {
		other, ok := o.(*Track)
		if !ok {
			continue
		}
		for h := range other.Hits.All() {
			t.Hits.PushBack(h)
		}
	}
	return int64(t.Hits.Len()), nil
}

// Marker only forwards to its base.
//
//dict:version 0
type Marker struct {
	Point
	Label string
}

//dict:version 0
type Orphan struct {
	A int32
}
