package pave

// Set is an unordered, duplicate-free collection. It is the container SetOf
// accepts and produces; any map[T]struct{} is accepted as well.
type Set[T comparable] map[T]struct{}

// SetFrom creates a Set holding the given elements.
func SetFrom[T comparable](elements ...T) Set[T] {
	s := make(Set[T], len(elements))
	for _, e := range elements {
		s[e] = struct{}{}
	}
	return s
}

// Contains returns true if the set contains the element.
func (s Set[T]) Contains(elem T) bool {
	_, exists := s[elem]
	return exists
}

// Len returns the number of elements in the set.
func (s Set[T]) Len() int {
	return len(s)
}
