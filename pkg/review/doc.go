// Package review loads review exports.
//
// An export is a JSON document whose top-level "Reviews" array holds one
// object per review. Each review is keyed by role ("reviewer", "product",
// "content", ...) and each role object carries image reference fields:
//
//	{"Reviews": [{"reviewer": {"thumbnail": "https://.../iap_75x75.1.jpg"}}]}
//
// Load reports unreadable or malformed files as input errors and a missing
// or non-array Reviews member as a schema error. ImageRef returns the
// reference at a role and field only when it is a non-empty string.
package review
