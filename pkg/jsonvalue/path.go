package jsonvalue

import (
	"fmt"
	"strconv"
	"strings"
)

// GetPath resolves a dotted path into nested objects and arrays.
func GetPath(root any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	current := root
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// maxIndexGrowth bounds how far past the end of an array SetPath may write.
const maxIndexGrowth = 1024

// SetPath returns a copy of root with value written at the dotted path. Only
// the containers along the path are copied. A segment addresses an array
// element when the node is an array, or when the node is missing and the
// segment is numeric; objects always take segments as keys.
func SetPath(root any, path string, value any) (any, error) {
	if path == "" {
		return value, nil
	}
	return setSegments(root, strings.Split(path, "."), value)
}

func setSegments(node any, segments []string, value any) (any, error) {
	if len(segments) == 0 {
		return value, nil
	}
	head, rest := segments[0], segments[1:]
	if head == "" {
		return nil, fmt.Errorf("jsonvalue: empty path segment")
	}

	switch current := node.(type) {
	case map[string]any:
		return setKey(current, head, rest, value)
	case []any:
		return setIndex(current, head, rest, value)
	}
	if _, err := strconv.Atoi(head); err == nil {
		return setIndex(nil, head, rest, value)
	}
	return setKey(nil, head, rest, value)
}

func setKey(obj map[string]any, key string, rest []string, value any) (any, error) {
	out := make(map[string]any, len(obj)+1)
	for k, v := range obj {
		out[k] = v
	}
	child, err := setSegments(out[key], rest, value)
	if err != nil {
		return nil, err
	}
	out[key] = child
	return out, nil
}

func setIndex(list []any, segment string, rest []string, value any) (any, error) {
	idx, err := strconv.Atoi(segment)
	switch {
	case err != nil:
		return nil, fmt.Errorf("jsonvalue: path segment %q is not an array index", segment)
	case idx < 0:
		return nil, fmt.Errorf("jsonvalue: negative index in path segment %q", segment)
	case idx >= len(list)+maxIndexGrowth:
		return nil, fmt.Errorf("jsonvalue: index %d is too far past the end of the array (length %d)", idx, len(list))
	}
	out := make([]any, max(len(list), idx+1))
	copy(out, list)
	child, err := setSegments(out[idx], rest, value)
	if err != nil {
		return nil, err
	}
	out[idx] = child
	return out, nil
}
