package parserbasic

import "github.com/seitarof/gen-dict/wire"

type Color int32

const (
	Red Color = iota
	Green
)

// Level has no constants, so it is a plain integer.
type Level int8

// Object is the common base.
//
//dict:version 1
type Object struct {
	ID uint32
}

// Track is one reconstructed track.
//
//dict:version 3
type Track struct {
	Object
	N     int32
	Xs    []float64 `dict:"[N]"`
	Ys    []float32 //[N*2] y positions
	Cache float64   //! recomputed on read
	Skip  int32     `dict:"-"`
	Color Color
	Level Level
	E     wire.Double32
	Hits  wire.List[int32]
	Tags  wire.MultiMap[string, int16]
	Set   map[string]struct{}
	Name  string // track label
	note  string
}

func NewTrack() *Track { return &Track{} }

func (t *Track) Destruct() {}

func (t *Track) MergeWithInfo(list []any, info *wire.MergeInfo) (int64, error) { return 0, nil }

func (t *Track) ResetAfterMerge(info *wire.MergeInfo) {}

func (t *Track) DirectoryAutoAdd(dir wire.Directory) {}

//dict:version 1
//dict:abstract
type Shape struct {
	Kind int32
}

//dict:version 2
type Custom struct {
	A int8
}

func (c *Custom) Streamer(b *wire.Buffer) error { return b.Err() }

type Plain struct {
	X int
}

type Gen[T any] struct {
	V T
}
