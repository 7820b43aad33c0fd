// Package urlnorm canonicalizes catalog URLs into a comparable key.
//
// Catalog exports and historical training logs refer to the same assessment
// with different path prefixes, casing and trailing slashes. Two URLs denote
// the same assessment iff Normalize returns the same value for both.
package urlnorm

import (
	"strings"
)

// Base is the fixed prefix every normalized URL is rebuilt under.
const Base = "https://www.shl.com/solutions/products/product-catalog/view/"

const (
	catalogSegment   = "/product-catalog/"
	productsSegment  = "/products/product-catalog/"
	solutionsSegment = "/solutions/products/product-catalog/"
)

// URL is a normalized catalog URL.
type URL string

// String implements fmt.Stringer.
func (u URL) String() string { return string(u) }

// Normalize rebuilds raw as Base + slug + "/". It never fails; an empty
// input produces the empty-slug URL, which matches nothing real.
func Normalize(raw string) URL {
	return URL(Base + Slug(raw) + "/")
}

// Slug returns the last non-empty path segment of raw, lower-cased.
// The bare Base yields an empty slug so that Normalize stays idempotent.
func Slug(raw string) string {
	s := strings.TrimRight(strings.ToLower(strings.TrimSpace(raw)), "/")
	if s == strings.TrimRight(Base, "/") {
		return ""
	}
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// Canonicalize fixes published catalog URLs that lack the /solutions/ prefix
// and guarantees a trailing slash. Unlike Normalize it keeps the host and
// any path that is not a product-catalog view.
func Canonicalize(raw string) string {
	u := strings.ToLower(strings.TrimSpace(raw))
	if u == "" {
		return u
	}
	switch {
	case strings.Contains(u, solutionsSegment):
	case strings.Contains(u, productsSegment):
		u = strings.Replace(u, productsSegment, solutionsSegment, 1)
	case strings.Contains(u, catalogSegment+"view/"):
		u = strings.Replace(u, catalogSegment, solutionsSegment, 1)
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}
