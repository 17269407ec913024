package runnerevent

import "github.com/seitarof/gen-dict/wire"

//dict:version 1
type Point struct {
	X, Y float64
}

//dict:version 2
type Track struct {
	N      int32
	Xs     []float64 `dict:"[N]"`
	E      wire.Double32
	Origin Point
	Hits   []int32
	Name   string
	Cache  float64 //! recomputed
}

//dict:version 0
type Marker struct {
	Point
	Label string
}

// Scratch is never written.
type Scratch struct {
	Buf []byte
}
