package review

import (
	"encoding/json"
	"fmt"
	"os"

	errs "reviewimg/pkg/errors"
)

// CollectionKey is the top-level key holding the review records
const CollectionKey = "Reviews"

// Review is one review record. Sub-records are keyed by role
// (reviewer, product, content, ...).
type Review map[string]interface{}

// Export is a parsed review export
type Export struct {
	Reviews []Review
}

// ImageRef returns review[role][field] when it is a non-empty string
func (r Review) ImageRef(role, field string) (string, bool) {
	sub, ok := r[role].(map[string]interface{})
	if !ok {
		return "", false
	}
	ref, ok := sub[field].(string)
	if !ok || ref == "" {
		return "", false
	}
	return ref, true
}

// Load reads and parses an export file
func Load(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeInput, err, fmt.Sprintf("failed to read export %s", path))
	}
	return Parse(data)
}

// Parse decodes an export document. Malformed JSON yields an input error;
// a document without a Reviews array yields a schema error.
func Parse(data []byte) (*Export, error) {
	var root interface{}
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeInput,
			Message: fmt.Sprintf("failed to parse export (preview %q)", preview(data)),
			Err:     err,
		}
	}

	doc, ok := root.(map[string]interface{})
	if !ok {
		return nil, errs.New(errs.ErrorTypeSchema, "export root is not an object")
	}
	raw, ok := doc[CollectionKey]
	if !ok {
		return nil, errs.New(errs.ErrorTypeSchema, fmt.Sprintf("export has no %q collection", CollectionKey))
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, errs.New(errs.ErrorTypeSchema, fmt.Sprintf("%q is not an array", CollectionKey))
	}

	export := &Export{Reviews: make([]Review, 0, len(items))}
	for _, item := range items {
		// Non-object entries are kept so they count towards the total and get skipped.
		rec, _ := item.(map[string]interface{})
		export.Reviews = append(export.Reviews, Review(rec))
	}
	return export, nil
}

func preview(data []byte) string {
	s := string(data)
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
