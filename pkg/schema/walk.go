package schema

import (
	"maps"
	"slices"
)

// WalkFunc is called for every node with its location in the schema tree.
// Returning a non-nil error stops the walk.
type WalkFunc func(path []string, node Schema) error

// Walk visits s depth first. Object fields are visited in key order.
func Walk(s Schema, fn WalkFunc) error {
	return walk(s, nil, fn)
}

func walk(s Schema, path []string, fn WalkFunc) error {
	if err := fn(path, s); err != nil {
		return err
	}
	obj, ok := s.(*Object)
	if !ok {
		return nil
	}
	for _, key := range slices.Sorted(maps.Keys(obj.Shape)) {
		if err := walk(obj.Shape[key], append(slices.Clip(path), key), fn); err != nil {
			return err
		}
	}
	return nil
}
