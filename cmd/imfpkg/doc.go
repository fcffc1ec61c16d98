// Command imfpkg inspects IMF packages from the command line.
//
//	imfpkg inspect <cpl>              summarise the composition and its tracks
//	imfpkg resolve <cpl> [uuid...]    map asset UUIDs to absolute URIs
//	imfpkg verify <cpl>               check every referenced asset is reachable
//	imfpkg catalog add <cpl>...       record packages in the SQLite catalog
//	imfpkg catalog find <uuid>        list every recorded location of an asset
//	imfpkg catalog list               list recorded packages
//
// Output is a table on a terminal and JSON otherwise; -o overrides. S3 and
// HTTP settings come from the same environment variables as the server
// (S3_ENDPOINT, S3_ACCESS_KEY, HTTP_USER_AGENT, ...), optionally loaded from
// a .env file in the working directory.
package main
