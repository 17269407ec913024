package event

import (
	"encoding/binary"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seitarof/gen-dict/wire"
)

func TestPRoundTrip(t *testing.T) {
	in := &P{N: 3, Xs: []float32{1.5, 2.5, 3.5}, V: []int32{7, 8}, S: "hi"}

	data, err := wire.Marshal(in)
	require.NoError(t, err)

	out := &P{}
	require.NoError(t, wire.Unmarshal(data, out))
	require.Equal(t, in, out)

	// version, byte count, N and the three positions come before V
	r := wire.NewReader(data)
	v, c := r.ReadVersion()
	require.Equal(t, int16(1), v)
	require.Equal(t, len(data), c.End())
	require.Equal(t, int32(3), r.ReadInt32())
	require.Equal(t, []float32{1.5, 2.5, 3.5}, wire.ReadFastArray[float32](r, 3))
	require.Equal(t, 2, r.ReadCount())
	require.NoError(t, r.Err())
}

func TestPByteCountCoversOwnMembers(t *testing.T) {
	data, err := wire.Marshal(&P{N: 1, Xs: []float32{4}, V: []int32{1, 2, 3}, S: "abc"})
	require.NoError(t, err)

	// N, one float32, count + three int32, short string
	want := 4 + 4 + (4 + 12) + (1 + 3)
	require.Equal(t, uint32(want), binary.BigEndian.Uint32(data[2:6]))
	require.Len(t, data, 6+want)
}

func TestPEmptyValues(t *testing.T) {
	data, err := wire.Marshal(&P{})
	require.NoError(t, err)

	out := &P{}
	require.NoError(t, wire.Unmarshal(data, out))
	require.Zero(t, out.N)
	require.Empty(t, out.Xs)
	require.Empty(t, out.V)
	require.Empty(t, out.S)
}

func TestPStableLayout(t *testing.T) {
	in := &P{N: 2, Xs: []float32{1, 2}, V: []int32{9}, S: "same"}
	first, err := wire.Marshal(in)
	require.NoError(t, err)
	second, err := wire.Marshal(in)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestPSizeMemberOutOfRange(t *testing.T) {
	_, err := wire.Marshal(&P{N: 4, Xs: []float32{1}})
	require.Error(t, err)
}

func TestPFramingErrorRepositions(t *testing.T) {
	data, err := wire.Marshal(&P{N: 1, Xs: []float32{1}, S: "x"})
	require.NoError(t, err)

	// claim one more byte than the streamer consumes
	count := binary.BigEndian.Uint32(data[2:6])
	binary.BigEndian.PutUint32(data[2:6], count+1)
	data = append(data, 0xAA)

	r := wire.NewReader(data)
	err = (&P{}).Streamer(r)
	var ferr *wire.FramingError
	require.ErrorAs(t, err, &ferr)
	require.Equal(t, "event.P", ferr.Class)
	require.Equal(t, int(count)+1, ferr.Want)
	require.Equal(t, int(count), ferr.Got)
	require.NoError(t, r.Err())
	require.Zero(t, r.Remaining())
}

func TestPNewerVersionSkipped(t *testing.T) {
	w := wire.NewWriter()
	c := w.WriteVersion(5)
	w.WriteInt64(42)
	w.WriteString("from the future")
	w.SetByteCount(c)
	w.WriteInt32(7)

	r := wire.NewReader(w.Bytes())
	err := (&P{}).Streamer(r)
	var verr *wire.VersionError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, int16(5), verr.OnFile)
	require.Equal(t, int16(1), verr.Current)
	require.Equal(t, int32(7), r.ReadInt32())
}

func TestQPlaceholderMemberNotStreamed(t *testing.T) {
	x := float32(9.5)
	in := &Q{N: 3, Xs: &x, V: []int32{7, 8}, S: "hi"}

	data, err := wire.Marshal(in)
	require.NoError(t, err)

	out := &Q{}
	require.NoError(t, wire.Unmarshal(data, out))
	require.Equal(t, int32(3), out.N)
	require.Nil(t, out.Xs)
	require.Equal(t, []int32{7, 8}, out.V)
	require.Equal(t, "hi", out.S)

	names := make([]string, 0, 3)
	for _, m := range dictQInfo().Members {
		names = append(names, m.Name)
	}
	require.Equal(t, []string{"N", "V", "S"}, names)
}

func sampleTrack() *Track {
	label := "primary"
	tr := &Track{
		Object: Object{ID: 17, Bits: 0x0F},
		N:      2,
		Xs:     []float64{0.25, -8},
		E:      12.5,
		Color:  Blue,
		Grid:   [2][3]int16{{1, 2, 3}, {-4, -5, -6}},
		Origin: Point{X: 1, Y: -1},
		Tags:   map[string]int16{"a": 1, "b": -2},
		Next:   &Point{X: 3, Y: 4},
		Label:  &label,
		Cache:  99,
	}
	tr.Hits.PushBack(5)
	tr.Hits.PushBack(6)
	tr.Hits.PushBack(5)
	return tr
}

func TestTrackRoundTrip(t *testing.T) {
	in := sampleTrack()

	data, err := wire.Marshal(in)
	require.NoError(t, err)

	out := &Track{}
	require.NoError(t, wire.Unmarshal(data, out))

	require.Equal(t, in.Object, out.Object)
	require.Equal(t, in.N, out.N)
	require.Equal(t, in.Xs, out.Xs)
	require.Equal(t, in.E, out.E)
	require.Equal(t, in.Color, out.Color)
	require.Equal(t, in.Grid, out.Grid)
	require.Equal(t, in.Origin, out.Origin)
	require.Equal(t, []int32{5, 6, 5}, slices.Collect(out.Hits.All()))
	require.Equal(t, in.Tags, out.Tags)
	require.Equal(t, in.Next, out.Next)
	require.Equal(t, *in.Label, *out.Label)
	require.Zero(t, out.Cache, "transient member must not be read")
}

func TestTrackNilPointersAndEmptyContainers(t *testing.T) {
	data, err := wire.Marshal(&Track{})
	require.NoError(t, err)

	out := &Track{Cache: 1}
	out.Hits.PushBack(1)
	require.NoError(t, wire.Unmarshal(data, out))
	require.Nil(t, out.Next)
	require.NotNil(t, out.Label)
	require.Empty(t, *out.Label)
	require.Zero(t, out.Hits.Len())
	require.Empty(t, out.Tags)
	require.Equal(t, float64(1), out.Cache)
}

func TestTrackRegistration(t *testing.T) {
	info := wire.Lookup("event.Track")
	require.NotNil(t, info)
	require.Same(t, info, dictTrackInfo())
	require.Equal(t, int16(2), info.Version)
	require.False(t, info.Abstract())

	obj, ok := info.New().(*Track)
	require.True(t, ok)
	require.NotNil(t, obj)
	require.Len(t, info.NewArray(3).([]Track), 3)

	var names []string
	info.ShowMembers(sampleTrack(), wire.InspectorFunc(func(class, member string, addr any) {
		require.Equal(t, "event.Track", class)
		require.NotNil(t, addr)
		names = append(names, member)
	}))
	require.Equal(t, []string{"Object", "N", "Xs", "E", "Color", "Grid", "Origin", "Hits", "Tags", "Next", "Label", "Cache"}, names)

	require.Equal(t, "N", info.Members[2].Index)
	require.Equal(t, "hit positions", info.Members[2].Title)
}

func TestTrackHooks(t *testing.T) {
	info := dictTrackInfo()
	tr := sampleTrack()

	n, err := info.Merge(tr, []any{sampleTrack(), "ignored"}, nil)
	require.NoError(t, err)
	require.Equal(t, int64(6), n)

	info.Destruct(tr)
	require.Zero(t, tr.Hits.Len())
	require.Nil(t, info.DirectoryAutoAdd)
	require.Nil(t, info.ResetAfterMerge)
}

func TestTrackStaleRuleDropped(t *testing.T) {
	rules := dictTrackInfo().ReadRules
	require.Len(t, rules, 1)
	require.Equal(t, []string{"Cache"}, rules[0].Target)
	require.Empty(t, dictTrackInfo().ReadRawRules)
}

func TestTrackReadsVersion1ThroughCatalog(t *testing.T) {
	v1 := []wire.Member{
		{Name: "Object", Type: wire.TypeDesc{Kind: wire.KindBase, Class: "event.Object"}},
		{Name: "N", Type: wire.TypeDesc{Kind: wire.KindInt32}},
		{Name: "E", Type: wire.TypeDesc{Kind: wire.KindDouble32}},
	}
	cat := wire.NewCatalog()
	require.NoError(t, cat.Add(&wire.Layout{Class: "event.Track", Version: 1, Checksum: wire.LayoutChecksum(v1), Members: v1}))

	w := wire.NewWriter()
	c := w.WriteVersion(1)
	require.NoError(t, (&Object{ID: 3, Bits: 1}).Streamer(w))
	w.WriteInt32(4)
	w.WriteDouble32(2.5)
	w.SetByteCount(c)
	require.NoError(t, w.Err())

	out := &Track{}
	require.NoError(t, wire.Unmarshal(w.Bytes(), out, wire.WithCatalog(cat)))
	require.Equal(t, Object{ID: 3, Bits: 1}, out.Object)
	require.Equal(t, int32(4), out.N)
	require.Equal(t, wire.Double32(2.5), out.E)
	require.Equal(t, float64(5), out.Cache, "version 1 rule fills the cache")
}

func TestTrackVersion1WithoutCatalogSkipped(t *testing.T) {
	w := wire.NewWriter()
	c := w.WriteVersion(1)
	w.WriteInt32(4)
	w.SetByteCount(c)

	r := wire.NewReader(w.Bytes())
	err := (&Track{}).Streamer(r)
	var verr *wire.VersionError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, int16(1), verr.OnFile)
	require.Zero(t, r.Remaining())
}

func TestMarkerForwardsToBase(t *testing.T) {
	in := &Marker{Point: Point{X: 1, Y: 2}, Label: "not streamed"}

	data, err := wire.Marshal(in)
	require.NoError(t, err)

	point, err := wire.Marshal(&in.Point)
	require.NoError(t, err)
	require.Equal(t, append([]byte{0, 0}, point...), data)

	out := &Marker{}
	require.NoError(t, wire.Unmarshal(data, out))
	require.Equal(t, in.Point, out.Point)
	require.Empty(t, out.Label)
	require.Len(t, dictMarkerInfo().Members, 1)
}

func TestOrphanHasNoStreamer(t *testing.T) {
	_, err := wire.Marshal(&Orphan{A: 1})
	require.True(t, errors.Is(err, wire.ErrDummyStreamer))

	err = wire.Unmarshal([]byte{0, 0}, &Orphan{})
	require.ErrorIs(t, err, wire.ErrDummyStreamer)
	require.Empty(t, dictOrphanInfo().Members)
}

func TestObjectCellSharesPoints(t *testing.T) {
	shared := &Point{X: 7, Y: 8}
	a, b := sampleTrack(), sampleTrack()
	a.Next, b.Next = shared, shared

	w := wire.NewWriter()
	require.NoError(t, a.Streamer(w))
	require.NoError(t, b.Streamer(w))

	r := wire.NewReader(w.Bytes())
	ra, rb := &Track{}, &Track{}
	require.NoError(t, ra.Streamer(r))
	require.NoError(t, rb.Streamer(r))
	require.Equal(t, *shared, *ra.Next)
	require.Same(t, ra.Next, rb.Next)
}
