package assetmap

import (
	"fmt"
	"strings"

	"imf-reader/internal/imferr"
	"imf-reader/internal/logging"
	"imf-reader/internal/transport"
	"imf-reader/internal/xmltree"
)

type config struct {
	limit       int
	strictPaths bool
	log         *logging.Logger
}

// Option configures Parse.
type Option func(*config)

// WithLimit caps the number of assets accepted.
func WithLimit(n int) Option {
	return func(c *config) { c.limit = n }
}

// WithStrictPaths rejects chunk paths that are absolute, carry a URI scheme,
// or contain a ".." segment.
func WithStrictPaths(strict bool) Option {
	return func(c *config) { c.strictPaths = strict }
}

// WithLogger sets the logger used for per-asset debug output.
func WithLogger(l *logging.Logger) Option {
	return func(c *config) { c.log = l }
}

// Parse builds a Table from an Asset Map document. Every chunk path is joined
// onto basePath. On error the returned table is nil.
func Parse(doc *xmltree.Document, basePath string, opts ...Option) (*Table, error) {
	cfg := config{}
	for _, o := range opts {
		o(&cfg)
	}

	root := doc.Root()
	if root == nil {
		return nil, imferr.InvalidData("missing root node")
	}
	if !xmltree.EqualFold(root.Local, "AssetMap") {
		return nil, imferr.InvalidData("wrong root node name %q, expected AssetMap", root.Local)
	}

	list := xmltree.FindChild(root, "AssetList")
	if list == nil {
		return nil, imferr.InvalidData("missing AssetList node")
	}

	table := NewTable(cfg.limit)
	for i, child := range list.Children {
		if !xmltree.EqualFold(child.Local, "Asset") {
			continue
		}

		loc, err := parseAsset(child, basePath, &cfg)
		if err != nil {
			cfg.log.Debug("asset map: asset #%d rejected: %v", i, err)
			return nil, err
		}
		if err := table.Append(loc); err != nil {
			return nil, err
		}
		cfg.log.Debug("asset map: urn:uuid:%s -> %s", loc.UUID, loc.AbsoluteURI)
	}

	if dups := table.Duplicates(); len(dups) > 0 {
		cfg.log.Warn("asset map: %d duplicate asset ids, first entry wins", len(dups))
	}
	return table, nil
}

func parseAsset(asset *xmltree.Element, basePath string, cfg *config) (AssetLocator, error) {
	id, err := xmltree.ReadUUID(xmltree.FindChild(asset, "Id"))
	if err != nil {
		return AssetLocator{}, err
	}

	chunkList := xmltree.FindChild(asset, "ChunkList")
	if chunkList == nil {
		return AssetLocator{}, imferr.InvalidData("missing ChunkList node for asset urn:uuid:%s", id)
	}
	chunk := xmltree.FindChild(chunkList, "Chunk")
	if chunk == nil {
		return AssetLocator{}, imferr.InvalidData("missing Chunk node for asset urn:uuid:%s", id)
	}

	path, ok := xmltree.ChildText(chunk, "Path")
	if !ok {
		return AssetLocator{}, imferr.InvalidData("missing Path node for asset urn:uuid:%s", id)
	}
	if path == "" {
		return AssetLocator{}, imferr.InvalidData("empty Path for asset urn:uuid:%s", id)
	}
	if cfg.strictPaths {
		if err := checkRelative(path); err != nil {
			return AssetLocator{}, imferr.InvalidData("asset urn:uuid:%s: %v", id, err)
		}
	}

	loc := AssetLocator{UUID: id, AbsoluteURI: transport.JoinPath(basePath, path)}
	// Length is optional; a bad value leaves it unknown (zero).
	if length := xmltree.FindChild(chunk, "Length"); length != nil {
		if n, err := xmltree.ReadUint(length); err != nil {
			cfg.log.Warn("asset map: ignoring Length of asset urn:uuid:%s: %v", id, err)
		} else {
			loc.Length = n
		}
	}
	return loc, nil
}

// checkRelative rejects paths that could escape the package directory.
func checkRelative(p string) error {
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) || strings.Contains(p, "://") {
		return fmt.Errorf("chunk path %q is not relative", p)
	}
	if len(p) >= 2 && p[1] == ':' {
		return fmt.Errorf("chunk path %q is not relative", p)
	}
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return fmt.Errorf("chunk path %q leaves the package directory", p)
		}
	}
	return nil
}
