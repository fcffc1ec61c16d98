/*
Package imf opens IMF packages and resolves their assets.

Opening a package reads two documents through the transport layer: the
Composition Playlist at the given URL, then the Asset Map. Unless
Options.AssetMapPath (the "assetmap" demuxer option) names another file,
the Asset Map is the sibling ASSETMAP.xml in the CPL's directory. Chunk
paths in the Asset Map are resolved against the Asset Map's own directory.

	pkg, err := imf.Open(ctx, "s3://masters/show/CPL.xml", imf.Options{
	    Transport: cfg.TransportOptions(),
	    Logger:    log,
	})
	if err != nil {
	    return err
	}
	defer pkg.Close()

	uri, err := pkg.ResolveURI(trackFileID)

Both reads are bounded by Options.MaxReadSize and must reach a clean end of
stream. A read that comes up short of the size the transport reported is an
error, never a truncated document.

A Package is used by one caller at a time. Verify is the only operation
that fans out, and it collects results through a single writer.

Errors are classified with the sentinels of package imferr: malformed or
unreadable documents wrap ErrInvalidData, transport failures wrap ErrIO,
and lookups of unknown UUIDs wrap ErrNotFound.
*/
package imf
