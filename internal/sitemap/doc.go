// Package sitemap builds and persists the documentable-file hierarchy of a
// project: an ordered nested map where directories are internal nodes and
// files are empty leaves, always headed by a synthetic "overview" leaf.
// The content generation stage walks this map, one generated page per leaf.
package sitemap
