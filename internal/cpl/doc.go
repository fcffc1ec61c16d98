/*
Package cpl parses IMF Composition Playlists (SMPTE ST 2067-3).

A Composition Playlist describes a timeline as a list of segments. Each
segment holds one sequence per track, and each sequence lists the resources
that play on that track during the segment:

	CompositionPlaylist
	├── Id, ContentTitle, EditRate
	└── SegmentList
	    └── Segment
	        └── SequenceList
	            ├── MainImageSequence  (TrackId, ResourceList)
	            ├── MainAudioSequence  (TrackId, ResourceList)
	            └── MarkerSequence     (TrackId, ResourceList)

Sequences that share a TrackId across segments form one virtual track.
Parse assembles those tracks in document order: a single main image track,
one main audio track per TrackId, one subtitle track per TrackId and a
single marker track. Sequence kinds this package does not know are kept on
their segment but not assembled.

Element names are matched without regard to case or namespace prefix.
Every structural violation aborts the parse with an error wrapping
imferr.ErrInvalidData.
*/
package cpl
