package parserembed

type Header struct {
	Run   int
	Label string
}

type Calib struct {
	Gain float32
}

type Geometry struct {
	Layer int16
}

type flags struct {
	Mask int32
}

type Energy int64

//dict:version 1
type Cluster struct {
	Header
	*Calib
	Geometry
	flags
	Energy
	Seed  string
	cache string
}
