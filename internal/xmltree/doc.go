// Package xmltree builds a small navigable element tree from XML bytes and
// provides the lookup helpers used by the asset map and CPL parsers.
//
// IMF documents nest shallowly and reuse element names at several depths
// (an Id under Asset, another under Chunk, another under the root), so every
// lookup is restricted to direct children and compares local names
// case-insensitively. Namespaces are recorded but never used for matching.
package xmltree
