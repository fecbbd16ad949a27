package linguist

import "fmt"

// UniqueAnnotated returns the forest's single surviving tree with
// the binder applied to every rule node, letting the host attach
// semantic behavior keyed by each node's production.  It errors when
// disambiguation left anything other than exactly one tree.
func (f *Forest) UniqueAnnotated(bind func(*RuleNode)) (*RuleNode, error) {
	if c := f.Count(); c != 1 {
		return nil, fmt.Errorf("forest holds %d trees, want exactly 1", c)
	}
	tree, _ := f.Trees().Next()
	root := tree.(*RuleNode)
	if bind != nil {
		root.Walk(bind)
	}
	return root, nil
}
