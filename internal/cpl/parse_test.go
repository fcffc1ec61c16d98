package cpl

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imf-reader/internal/imferr"
	"imf-reader/internal/xmltree"
)

func loadFixture(t *testing.T, name string) *xmltree.Document {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	doc, err := xmltree.Parse(data)
	require.NoError(t, err)
	return doc
}

func parseString(t *testing.T, s string) (*CompositionPlaylist, error) {
	t.Helper()
	doc, err := xmltree.Parse([]byte(s))
	require.NoError(t, err)
	return Parse(doc)
}

func TestParse_Fixture(t *testing.T) {
	c, err := Parse(loadFixture(t, "CPL_two_segments.xml"))
	require.NoError(t, err)

	assert.Equal(t, uuid.MustParse("8713c020-2489-45f5-a9f7-87be539e20b5"), c.ID)
	assert.Equal(t, "IMF test", c.ContentTitle)
	assert.Equal(t, "Test composition", c.Annotation)
	assert.Equal(t, "2021-07-13T17:06:22Z", c.IssueDate)
	assert.Equal(t, Rational{Num: 24000, Den: 1001}, c.EditRate)
	require.Len(t, c.Segments, 2)
	assert.Len(t, c.Segments[0].Sequences, 3)
	assert.Len(t, c.Segments[1].Sequences, 3)

	require.NotNil(t, c.MainImage)
	assert.Equal(t, uuid.MustParse("e8ef9653-565c-479c-8039-82d4547973c5"), c.MainImage.TrackID)
	require.Len(t, c.MainImage.Resources, 2)

	first := c.MainImage.Resources[0]
	assert.Equal(t, Rational{Num: 24, Den: 1}, first.EditRate)
	assert.Equal(t, uint64(12), first.EntryPoint)
	assert.Equal(t, uint64(24), first.SourceDuration)
	assert.Equal(t, uint64(2), first.RepeatCount)

	second := c.MainImage.Resources[1]
	assert.Equal(t, c.EditRate, second.EditRate)
	assert.Equal(t, uint64(0), second.EntryPoint)
	assert.Equal(t, uint64(48), second.SourceDuration)
	assert.Equal(t, uint64(1), second.RepeatCount)

	require.Len(t, c.MainAudio, 2)
	assert.Len(t, c.MainAudio[0].Resources, 2)
	assert.Len(t, c.MainAudio[1].Resources, 1)
	assert.Empty(t, c.Subtitles)

	require.NotNil(t, c.Markers)
	require.Len(t, c.Markers.Resources, 1)
	assert.Equal(t, []Marker{{Label: "FFOC", Offset: 0}}, c.Markers.Resources[0].Markers)
	assert.False(t, c.Markers.Resources[0].HasTrackFile())

	assert.Len(t, c.Tracks(), 4)
}

func TestReferencedAssets(t *testing.T) {
	c, err := Parse(loadFixture(t, "CPL_two_segments.xml"))
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{
		uuid.MustParse("da7de9e4-4b4e-4d1b-9d9f-3e1b7e0e5c01"),
		uuid.MustParse("ad9f1b0a-7c1e-4b49-9a63-6d0b1a2c3e4f"),
		uuid.MustParse("be0a2c1b-8d2f-4c5a-8b74-7e1c2b3d4f50"),
		uuid.MustParse("cf1b3d2c-9e30-4d6b-9c85-8f2d3c4e5061"),
	}, c.ReferencedAssets())
}

func TestVirtualTrackDuration(t *testing.T) {
	c, err := Parse(loadFixture(t, "CPL_two_segments.xml"))
	require.NoError(t, err)

	// 24*2 frames at 24/1 = 2s, plus 48 frames at 24000/1001 = 2.002s.
	assert.Equal(t, Rational{Num: 2001, Den: 500}, c.MainImage.Duration())

	var nilTrack *VirtualTrack
	assert.Equal(t, Rational{Num: 0, Den: 1}, nilTrack.Duration())

	huge := &VirtualTrack{Resources: []Resource{{
		EditRate:       Rational{Num: 1, Den: 1},
		SourceDuration: math.MaxUint64,
		RepeatCount:    4,
	}}}
	assert.Equal(t, Rational{Num: math.MaxInt64, Den: 1}, huge.Duration())
}

const minimalHead = `<CompositionPlaylist><Id>urn:uuid:8713c020-2489-45f5-a9f7-87be539e20b5</Id><ContentTitle>t</ContentTitle><EditRate>24 1</EditRate>`

func segment(sequences string) string {
	return `<Segment><Id>urn:uuid:81fed4e5-9722-400a-b9d1-7f2bd21df4b6</Id><SequenceList>` + sequences + `</SequenceList></Segment>`
}

func sequence(kind, track, resources string) string {
	return `<` + kind + `><Id>urn:uuid:6ae100b0-92d1-41be-9321-85e0933dfc42</Id><TrackId>urn:uuid:` + track + `</TrackId><ResourceList>` + resources + `</ResourceList></` + kind + `>`
}

func resource(extra string) string {
	return `<Resource><Id>urn:uuid:7fbb8f71-3d14-4c4f-8ab9-2fca10e1b1a6</Id>` + extra + `</Resource>`
}

const (
	trackA   = "e8ef9653-565c-479c-8039-82d4547973c5"
	trackB   = "68e3fae5-d94b-44d2-92a6-b94877fbcdb5"
	fileRef  = `<TrackFileId>urn:uuid:da7de9e4-4b4e-4d1b-9d9f-3e1b7e0e5c01</TrackFileId>`
	duration = `<IntrinsicDuration>10</IntrinsicDuration>`
)

func cplWith(segments ...string) string {
	return minimalHead + `<SegmentList>` + strings.Join(segments, "") + `</SegmentList></CompositionPlaylist>`
}

func TestParse_Minimal(t *testing.T) {
	c, err := parseString(t, cplWith())
	require.NoError(t, err)
	assert.Empty(t, c.Segments)
	assert.Nil(t, c.MainImage)
	assert.Empty(t, c.ReferencedAssets())
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"wrong root", `<AssetMap/>`, "wrong root node name"},
		{"missing id", `<CompositionPlaylist><ContentTitle>t</ContentTitle></CompositionPlaylist>`, "missing Id node"},
		{"bad id", `<CompositionPlaylist><Id>urn:uuid:xyz</Id></CompositionPlaylist>`, "malformed UUID"},
		{"missing title", `<CompositionPlaylist><Id>urn:uuid:8713c020-2489-45f5-a9f7-87be539e20b5</Id><EditRate>24 1</EditRate><SegmentList/></CompositionPlaylist>`, "missing ContentTitle"},
		{"missing edit rate", `<CompositionPlaylist><Id>urn:uuid:8713c020-2489-45f5-a9f7-87be539e20b5</Id><ContentTitle>t</ContentTitle><SegmentList/></CompositionPlaylist>`, "missing EditRate"},
		{"zero edit rate", `<CompositionPlaylist><Id>urn:uuid:8713c020-2489-45f5-a9f7-87be539e20b5</Id><ContentTitle>t</ContentTitle><EditRate>24 0</EditRate><SegmentList/></CompositionPlaylist>`, "malformed rational"},
		{"missing segment list", minimalHead + `</CompositionPlaylist>`, "missing SegmentList"},
		{"missing sequence list", cplWith(`<Segment><Id>urn:uuid:81fed4e5-9722-400a-b9d1-7f2bd21df4b6</Id></Segment>`), "missing SequenceList"},
		{"missing track id", cplWith(segment(`<MainImageSequence><Id>urn:uuid:6ae100b0-92d1-41be-9321-85e0933dfc42</Id><ResourceList/></MainImageSequence>`)), "missing TrackId"},
		{"missing resource list", cplWith(segment(`<MainImageSequence><Id>urn:uuid:6ae100b0-92d1-41be-9321-85e0933dfc42</Id><TrackId>urn:uuid:` + trackA + `</TrackId></MainImageSequence>`)), "missing ResourceList"},
		{"missing intrinsic", cplWith(segment(sequence("MainImageSequence", trackA, resource(fileRef)))), "missing IntrinsicDuration"},
		{"missing track file", cplWith(segment(sequence("MainImageSequence", trackA, resource(duration)))), "missing TrackFileId"},
		{"entry beyond intrinsic", cplWith(segment(sequence("MainImageSequence", trackA, resource(duration+fileRef+`<EntryPoint>11</EntryPoint>`)))), "beyond IntrinsicDuration"},
		{"source too long", cplWith(segment(sequence("MainImageSequence", trackA, resource(duration+fileRef+`<EntryPoint>5</EntryPoint><SourceDuration>6</SourceDuration>`)))), "exceeds IntrinsicDuration"},
		{"zero repeat", cplWith(segment(sequence("MainImageSequence", trackA, resource(duration+fileRef+`<RepeatCount>0</RepeatCount>`)))), "RepeatCount"},
		{"negative duration", cplWith(segment(sequence("MainImageSequence", trackA, resource(`<IntrinsicDuration>-1</IntrinsicDuration>`+fileRef)))), "malformed integer"},
		{"marker without label", cplWith(segment(sequence("MarkerSequence", trackA, resource(duration+`<Marker><Offset>1</Offset></Marker>`)))), "missing Label"},
		{"marker without offset", cplWith(segment(sequence("MarkerSequence", trackA, resource(duration+`<Marker><Label>FFOC</Label></Marker>`)))), "missing Offset"},
		{"two image tracks", cplWith(segment(sequence("MainImageSequence", trackA, resource(duration+fileRef)) + sequence("MainImageSequence", trackB, resource(duration+fileRef)))), "multiple main image"},
		{"two marker tracks", cplWith(segment(sequence("MarkerSequence", trackA, "") + sequence("MarkerSequence", trackB, ""))), "multiple marker"},
		{"duration overflow", cplWith(segment(sequence("MainImageSequence", trackA, resource(`<EditRate>1 1</EditRate><IntrinsicDuration>18446744073709551615</IntrinsicDuration><RepeatCount>4</RepeatCount>`+fileRef)))), "duration overflows"},
		{"track kind clash", cplWith(segment(sequence("MainImageSequence", trackA, resource(duration+fileRef)) + sequence("MainAudioSequence", trackA, resource(duration+fileRef)))), "used as both"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := parseString(t, tt.doc)
			require.ErrorIs(t, err, imferr.ErrInvalidData)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Nil(t, c)
		})
	}
}

func TestParse_NilDocument(t *testing.T) {
	c, err := Parse(nil)
	require.ErrorIs(t, err, imferr.ErrInvalidData)
	assert.Nil(t, c)
}

func TestParse_SubtitlesAndOtherSequences(t *testing.T) {
	other := `<ForcedNarrativeSequence><Id>urn:uuid:6ae100b0-92d1-41be-9321-85e0933dfc42</Id><TrackId>urn:uuid:` + trackB + `</TrackId><ResourceList>` + resource(duration) + `</ResourceList></ForcedNarrativeSequence>`
	c, err := parseString(t, cplWith(segment(sequence("SubtitlesSequence", trackA, resource(duration+fileRef))+other)))
	require.NoError(t, err)

	require.Len(t, c.Subtitles, 1)
	assert.Equal(t, KindSubtitles, c.Subtitles[0].Kind)
	require.Len(t, c.Segments[0].Sequences, 2)
	assert.Equal(t, KindOther, c.Segments[0].Sequences[1].Kind)
	assert.Equal(t, "ForcedNarrativeSequence", c.Segments[0].Sequences[1].Name)
	assert.Len(t, c.Tracks(), 1)
}

func TestParse_CaseInsensitive(t *testing.T) {
	doc := `<compositionplaylist><ID>8713c020-2489-45f5-a9f7-87be539e20b5</ID><contenttitle>t</contenttitle><editrate>25 1</editrate><segmentlist>` +
		`<segment><id>urn:uuid:81fed4e5-9722-400a-b9d1-7f2bd21df4b6</id><sequencelist>` +
		`<mainimagesequence><id>urn:uuid:6ae100b0-92d1-41be-9321-85e0933dfc42</id><trackid>urn:uuid:` + trackA + `</trackid><resourcelist>` +
		`<resource><id>urn:uuid:7fbb8f71-3d14-4c4f-8ab9-2fca10e1b1a6</id><intrinsicduration>25</intrinsicduration><trackfileid>urn:uuid:da7de9e4-4b4e-4d1b-9d9f-3e1b7e0e5c01</trackfileid></resource>` +
		`</resourcelist></mainimagesequence></sequencelist></segment></segmentlist></compositionplaylist>`

	c, err := parseString(t, doc)
	require.NoError(t, err)
	require.NotNil(t, c.MainImage)
	assert.Equal(t, Rational{Num: 1, Den: 1}, c.MainImage.Duration())
}

func TestSequenceKindString(t *testing.T) {
	assert.Equal(t, "main_image", KindMainImage.String())
	assert.Equal(t, "marker", KindMarker.String())
	assert.Equal(t, "unknown", SequenceKind(99).String())

	text, err := KindMainAudio.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "main_audio", string(text))
}

func TestSequenceKindJSON(t *testing.T) {
	for kind := range kindNames {
		data, err := json.Marshal(VirtualTrack{Kind: kind})
		require.NoError(t, err)

		var back VirtualTrack
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, kind, back.Kind, string(data))
	}

	var k SequenceKind
	assert.Error(t, k.UnmarshalText([]byte("unknown")))
}

func TestRational(t *testing.T) {
	assert.Equal(t, "24000/1001", Rational{Num: 24000, Den: 1001}.String())
	assert.InDelta(t, 23.976, Rational{Num: 24000, Den: 1001}.Float64(), 0.001)
	assert.Equal(t, 0.0, Rational{}.Float64())
}
