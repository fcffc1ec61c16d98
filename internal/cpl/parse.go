package cpl

import (
	"github.com/google/uuid"

	"imf-reader/internal/imferr"
	"imf-reader/internal/xmltree"
)

var sequenceKinds = []struct {
	name string
	kind SequenceKind
}{
	{"MainImageSequence", KindMainImage},
	{"MainAudioSequence", KindMainAudio},
	{"SubtitlesSequence", KindSubtitles},
	{"MarkerSequence", KindMarker},
}

func kindOf(local string) SequenceKind {
	for _, k := range sequenceKinds {
		if xmltree.EqualFold(local, k.name) {
			return k.kind
		}
	}
	return KindOther
}

func isSequence(local string) bool {
	const suffix = "Sequence"
	return len(local) > len(suffix) && xmltree.EqualFold(local[len(local)-len(suffix):], suffix)
}

// Parse builds a CompositionPlaylist from a CPL document.
func Parse(doc *xmltree.Document) (*CompositionPlaylist, error) {
	root := doc.Root()
	if root == nil {
		return nil, imferr.InvalidData("missing root node")
	}
	if !xmltree.EqualFold(root.Local, "CompositionPlaylist") {
		return nil, imferr.InvalidData("wrong root node name %q, expected CompositionPlaylist", root.Local)
	}

	c := &CompositionPlaylist{}
	var err error

	if c.ID, err = requiredUUID(root, "Id", "CompositionPlaylist"); err != nil {
		return nil, err
	}
	c.Annotation, _ = xmltree.ChildText(root, "Annotation")
	c.IssueDate, _ = xmltree.ChildText(root, "IssueDate")

	title, ok := xmltree.ChildText(root, "ContentTitle")
	if !ok {
		return nil, imferr.InvalidData("missing ContentTitle node")
	}
	c.ContentTitle = title

	rate := xmltree.FindChild(root, "EditRate")
	if rate == nil {
		return nil, imferr.InvalidData("missing EditRate node")
	}
	if c.EditRate.Num, c.EditRate.Den, err = xmltree.ReadRational(rate); err != nil {
		return nil, err
	}

	segments := xmltree.FindChild(root, "SegmentList")
	if segments == nil {
		return nil, imferr.InvalidData("missing SegmentList node")
	}
	for _, el := range xmltree.Children(segments, "Segment") {
		seg, err := parseSegment(el, c.EditRate)
		if err != nil {
			return nil, err
		}
		c.Segments = append(c.Segments, seg)
	}

	if err := assemble(c); err != nil {
		return nil, err
	}
	return c, nil
}

func parseSegment(el *xmltree.Element, rate Rational) (Segment, error) {
	id, err := requiredUUID(el, "Id", "Segment")
	if err != nil {
		return Segment{}, err
	}
	seg := Segment{ID: id}

	list := xmltree.FindChild(el, "SequenceList")
	if list == nil {
		return Segment{}, imferr.InvalidData("missing SequenceList node in segment urn:uuid:%s", id)
	}
	for _, child := range list.Children {
		if !isSequence(child.Local) {
			continue
		}
		seq, err := parseSequence(child, rate)
		if err != nil {
			return Segment{}, err
		}
		seg.Sequences = append(seg.Sequences, seq)
	}
	return seg, nil
}

func parseSequence(el *xmltree.Element, rate Rational) (Sequence, error) {
	seq := Sequence{Kind: kindOf(el.Local), Name: el.Local}
	var err error

	if seq.ID, err = requiredUUID(el, "Id", el.Local); err != nil {
		return Sequence{}, err
	}
	if seq.TrackID, err = requiredUUID(el, "TrackId", el.Local); err != nil {
		return Sequence{}, err
	}

	list := xmltree.FindChild(el, "ResourceList")
	if list == nil {
		return Sequence{}, imferr.InvalidData("missing ResourceList node in %s urn:uuid:%s", el.Local, seq.ID)
	}
	for _, r := range xmltree.Children(list, "Resource") {
		res, err := parseResource(r, seq.Kind, rate)
		if err != nil {
			return Sequence{}, err
		}
		seq.Resources = append(seq.Resources, res)
	}
	return seq, nil
}

func parseResource(el *xmltree.Element, kind SequenceKind, rate Rational) (Resource, error) {
	res := Resource{EditRate: rate, RepeatCount: 1}
	var err error

	if res.ID, err = requiredUUID(el, "Id", "Resource"); err != nil {
		return Resource{}, err
	}

	if e := xmltree.FindChild(el, "EditRate"); e != nil {
		if res.EditRate.Num, res.EditRate.Den, err = xmltree.ReadRational(e); err != nil {
			return Resource{}, err
		}
	}

	intrinsic := xmltree.FindChild(el, "IntrinsicDuration")
	if intrinsic == nil {
		return Resource{}, imferr.InvalidData("missing IntrinsicDuration node in resource urn:uuid:%s", res.ID)
	}
	if res.IntrinsicDuration, err = xmltree.ReadUint(intrinsic); err != nil {
		return Resource{}, err
	}

	if e := xmltree.FindChild(el, "EntryPoint"); e != nil {
		if res.EntryPoint, err = xmltree.ReadUint(e); err != nil {
			return Resource{}, err
		}
	}
	if res.EntryPoint > res.IntrinsicDuration {
		return Resource{}, imferr.InvalidData("resource urn:uuid:%s: EntryPoint %d beyond IntrinsicDuration %d",
			res.ID, res.EntryPoint, res.IntrinsicDuration)
	}

	res.SourceDuration = res.IntrinsicDuration - res.EntryPoint
	if e := xmltree.FindChild(el, "SourceDuration"); e != nil {
		if res.SourceDuration, err = xmltree.ReadUint(e); err != nil {
			return Resource{}, err
		}
		if res.SourceDuration > res.IntrinsicDuration-res.EntryPoint {
			return Resource{}, imferr.InvalidData("resource urn:uuid:%s: EntryPoint %d + SourceDuration %d exceeds IntrinsicDuration %d",
				res.ID, res.EntryPoint, res.SourceDuration, res.IntrinsicDuration)
		}
	}

	if e := xmltree.FindChild(el, "RepeatCount"); e != nil {
		if res.RepeatCount, err = xmltree.ReadUint(e); err != nil {
			return Resource{}, err
		}
		if res.RepeatCount < 1 {
			return Resource{}, imferr.InvalidData("resource urn:uuid:%s: RepeatCount must be at least 1", res.ID)
		}
	}

	switch kind {
	case KindMarker:
		for _, m := range xmltree.Children(el, "Marker") {
			marker, err := parseMarker(m, res.ID)
			if err != nil {
				return Resource{}, err
			}
			res.Markers = append(res.Markers, marker)
		}
	case KindOther:
		if e := xmltree.FindChild(el, "TrackFileId"); e != nil {
			if res.TrackFileID, err = xmltree.ReadUUID(e); err != nil {
				return Resource{}, err
			}
		}
	default:
		if res.TrackFileID, err = requiredUUID(el, "TrackFileId", "Resource"); err != nil {
			return Resource{}, err
		}
	}
	return res, nil
}

func parseMarker(el *xmltree.Element, resource uuid.UUID) (Marker, error) {
	label, ok := xmltree.ChildText(el, "Label")
	if !ok || label == "" {
		return Marker{}, imferr.InvalidData("missing Label node in marker of resource urn:uuid:%s", resource)
	}
	offset := xmltree.FindChild(el, "Offset")
	if offset == nil {
		return Marker{}, imferr.InvalidData("missing Offset node in marker of resource urn:uuid:%s", resource)
	}
	off, err := xmltree.ReadUint(offset)
	if err != nil {
		return Marker{}, err
	}
	return Marker{Label: label, Offset: off}, nil
}

func requiredUUID(el *xmltree.Element, name, owner string) (uuid.UUID, error) {
	child := xmltree.FindChild(el, name)
	if child == nil {
		return uuid.Nil, imferr.InvalidData("missing %s node in %s", name, owner)
	}
	return xmltree.ReadUUID(child)
}

// assemble merges sequences sharing a TrackId into virtual tracks.
func assemble(c *CompositionPlaylist) error {
	kinds := make(map[uuid.UUID]SequenceKind)
	audio := make(map[uuid.UUID]*VirtualTrack)
	subtitles := make(map[uuid.UUID]*VirtualTrack)

	for _, seg := range c.Segments {
		for _, seq := range seg.Sequences {
			if seq.Kind == KindOther {
				continue
			}
			if k, ok := kinds[seq.TrackID]; ok && k != seq.Kind {
				return imferr.InvalidData("track urn:uuid:%s used as both %s and %s", seq.TrackID, k, seq.Kind)
			}
			kinds[seq.TrackID] = seq.Kind

			var track *VirtualTrack
			switch seq.Kind {
			case KindMainImage:
				if c.MainImage == nil {
					c.MainImage = &VirtualTrack{TrackID: seq.TrackID, Kind: KindMainImage}
				} else if c.MainImage.TrackID != seq.TrackID {
					return imferr.InvalidData("multiple main image virtual tracks (urn:uuid:%s, urn:uuid:%s)",
						c.MainImage.TrackID, seq.TrackID)
				}
				track = c.MainImage
			case KindMarker:
				if c.Markers == nil {
					c.Markers = &VirtualTrack{TrackID: seq.TrackID, Kind: KindMarker}
				} else if c.Markers.TrackID != seq.TrackID {
					return imferr.InvalidData("multiple marker virtual tracks (urn:uuid:%s, urn:uuid:%s)",
						c.Markers.TrackID, seq.TrackID)
				}
				track = c.Markers
			case KindMainAudio:
				track = trackFor(audio, &c.MainAudio, seq)
			case KindSubtitles:
				track = trackFor(subtitles, &c.Subtitles, seq)
			}
			track.Resources = append(track.Resources, seq.Resources...)
		}
	}

	for _, t := range c.Tracks() {
		if !fitsInt64(t.total()) {
			return imferr.InvalidData("track urn:uuid:%s duration overflows", t.TrackID)
		}
	}
	return nil
}

func trackFor(index map[uuid.UUID]*VirtualTrack, list *[]*VirtualTrack, seq Sequence) *VirtualTrack {
	if t, ok := index[seq.TrackID]; ok {
		return t
	}
	t := &VirtualTrack{TrackID: seq.TrackID, Kind: seq.Kind}
	index[seq.TrackID] = t
	*list = append(*list, t)
	return t
}
