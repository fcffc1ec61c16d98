/*
Package assetmap parses IMF Asset Map documents into a UUID to URI table.

An Asset Map names every asset in a package by UUID and gives the path of
the chunk that stores it, relative to the directory holding the Asset Map:

	<AssetMap>
	  <AssetList>
	    <Asset>
	      <Id>urn:uuid:...</Id>
	      <ChunkList>
	        <Chunk><Path>video.mxf</Path></Chunk>
	      </ChunkList>
	    </Asset>
	  </AssetList>
	</AssetMap>

Parse walks this structure and joins every chunk path onto the caller's base
path. Any structural violation aborts the whole parse and no table is
returned. Only the first Chunk of each Asset is used; its optional Length
is kept for verification.

# Duplicates

The table keeps every entry in document order. When a UUID appears more
than once, Lookup returns the first entry; Duplicates lists the UUIDs whose
later entries are shadowed so callers can warn about them.
*/
package assetmap
