package document

// Extract walks keys top-down from n, descending only through mappings. The
// second result is false when any step names a missing key, when a step lands
// on a non-mapping, or when keys is empty (an empty path is valid for
// construction but not extraction).
func Extract(n *Node, keys []string) (*Node, bool) {
	if len(keys) == 0 {
		return nil, false
	}
	current := n
	for _, key := range keys {
		child, ok := current.Get(key)
		if !ok {
			return nil, false
		}
		current = child
	}
	return current, true
}

// Skeleton builds the minimal nested mapping holding leaf at the location
// named by keys. With an empty path the leaf itself is the whole document.
func Skeleton(keys []string, leaf *Node) *Node {
	if len(keys) == 0 {
		return leaf
	}
	root := Mapping()
	current := root
	for _, key := range keys[:len(keys)-1] {
		next := Mapping()
		current.Set(key, next)
		current = next
	}
	current.Set(keys[len(keys)-1], leaf)
	return root
}
