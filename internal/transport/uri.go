package transport

import (
	"net/url"
	"strings"
)

// Scheme returns the lower-cased URI scheme of uri, or "file" for plain
// paths (including Windows drive paths such as C:\pkg\CPL.xml).
func Scheme(uri string) string {
	i := strings.Index(uri, "://")
	if i <= 1 || !isScheme(uri[:i]) {
		return "file"
	}
	return strings.ToLower(uri[:i])
}

func isScheme(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// Dirname returns everything before the last path separator of p. The
// scheme and authority of a URI are never split: the directory of
// "file:///CPL.xml" is "file:///" and of "s3://bucket/CPL.xml" is
// "s3://bucket/". A path with no separator yields ".".
func Dirname(p string) string {
	prefix, rest := "", p
	if i := strings.Index(p, "://"); i > 1 && isScheme(p[:i]) {
		j := strings.IndexByte(p[i+3:], '/')
		if j < 0 {
			return p
		}
		prefix, rest = p[:i+3+j], p[i+3+j:]
	}

	k := strings.LastIndexByte(rest, '/')
	switch {
	case k < 0:
		return "."
	case k == 0:
		return prefix + "/"
	default:
		return prefix + rest[:k]
	}
}

// JoinPath appends component to base with exactly one '/' between them.
// An empty base yields component unchanged; an empty component yields base.
// No other normalisation takes place.
func JoinPath(base, component string) string {
	switch {
	case base == "":
		return component
	case component == "":
		return base
	}

	baseSlash := strings.HasSuffix(base, "/")
	compSlash := strings.HasPrefix(component, "/")
	switch {
	case !baseSlash && !compSlash:
		return base + "/" + component
	case baseSlash && compSlash:
		return base + component[1:]
	default:
		return base + component
	}
}

// localPath converts a file:// URI to a filesystem path. Plain paths are
// returned unchanged.
func localPath(uri string) (string, error) {
	if Scheme(uri) != "file" || !strings.Contains(uri, "://") {
		return uri, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	if u.Host != "" && u.Host != "localhost" {
		return "//" + u.Host + u.Path, nil
	}
	return u.Path, nil
}
