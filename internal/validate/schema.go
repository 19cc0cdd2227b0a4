package validate

import (
	"fmt"
	"strings"
)

// FieldError names one missing value by its path, e.g. "faq[2].answer".
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e FieldError) Error() string { return e.Path + ": " + e.Message }

// Schema lists the required paths of one document shape. Paths are dot
// separated JSON keys. A "[]" suffix requires a non-empty list and applies
// the rest of the path to every element ("faq[].question", "agents[]");
// "[*]" does the same but lets the list be empty or absent.
// Anything not listed is optional.
type Schema []string

// Check returns one FieldError per missing value, in schema order.
func (s Schema) Check(v any) []FieldError {
	root := normalize(v)
	var errs []FieldError
	for _, rule := range s {
		errs = append(errs, check(root, strings.Split(rule, "."), "")...)
	}
	return errs
}

// Valid is Check without the details.
func (s Schema) Valid(v any) bool { return len(s.Check(v)) == 0 }

func check(v any, segs []string, at string) []FieldError {
	if len(segs) == 0 {
		if !present(v) {
			return []FieldError{{Path: at, Message: "is required"}}
		}
		return nil
	}
	seg := segs[0]
	optional := strings.HasSuffix(seg, "[*]")
	each := optional || strings.HasSuffix(seg, "[]")
	key := strings.TrimSuffix(strings.TrimSuffix(seg, "[*]"), "[]")
	path := join(at, key)

	m, _ := v.(map[string]any)
	child, ok := m[key]
	if !ok || child == nil {
		if optional {
			return nil
		}
		return []FieldError{{Path: path, Message: "is required"}}
	}
	if !each {
		return check(child, segs[1:], path)
	}
	list, _ := child.([]any)
	if len(list) == 0 {
		if optional {
			return nil
		}
		return []FieldError{{Path: path, Message: "needs at least one entry"}}
	}
	var errs []FieldError
	for i, e := range list {
		errs = append(errs, check(e, segs[1:], fmt.Sprintf("%s[%d]", path, i))...)
	}
	return errs
}

// present is the leaf test: strings and lists must be non-empty, objects
// must exist, booleans and numbers always count.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case []any:
		return len(t) > 0
	}
	return true
}

func join(at, key string) string {
	if at == "" {
		return key
	}
	return at + "." + key
}
