package docstore

import "strconv"

// getIn walks segs from v. Missing keys yield nil.
func getIn(v any, segs []string) any {
	for _, s := range segs {
		switch node := v.(type) {
		case map[string]any:
			v = node[s]
		case []any:
			i, err := strconv.Atoi(s)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			v = node[i]
		default:
			return nil
		}
	}
	return v
}

// setIn returns a copy of v with the value at segs replaced. Only the nodes on
// the path are copied, so snapshots already handed out never change. A nil val
// deletes the key and prunes parents left empty.
func setIn(v any, segs []string, val any) any {
	if len(segs) == 0 {
		return val
	}
	head, rest := segs[0], segs[1:]

	if arr, ok := v.([]any); ok {
		if i, err := strconv.Atoi(head); err == nil && i >= 0 && i < len(arr) {
			out := make([]any, len(arr))
			copy(out, arr)
			out[i] = setIn(arr[i], rest, val)
			if isEmpty(out) {
				return nil
			}
			return out
		}
		v = arrayToMap(arr)
	}

	src, _ := v.(map[string]any)
	out := make(map[string]any, len(src)+1)
	for k, child := range src {
		out[k] = child
	}
	child := setIn(src[head], rest, val)
	if child == nil {
		delete(out, head)
	} else {
		out[head] = child
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func arrayToMap(arr []any) map[string]any {
	m := make(map[string]any, len(arr))
	for i, item := range arr {
		if item != nil {
			m[strconv.Itoa(i)] = item
		}
	}
	return m
}

func isEmpty(arr []any) bool {
	for _, item := range arr {
		if item != nil {
			return false
		}
	}
	return true
}
