package parsernested

import "github.com/seitarof/gen-dict/testdata/parserbasic"

type Leaf struct {
	Value string
}

//dict:version 2
type Root struct {
	Leaf   Leaf
	Track  *parserbasic.Track
	Color  parserbasic.Color
	Tracks []parserbasic.Track
	Self   *Root
	Any    any
	Ch     chan int
	Pair   [2][3]int16
}
