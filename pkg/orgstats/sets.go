package orgstats

import (
	set "github.com/deckarep/golang-set"
)

// newStringSet converts the specified slice of strings to a set.Set of strings.
func newStringSet(strings []string) set.Set {
	s := set.NewSet()
	for _, v := range strings {
		s.Add(v)
	}
	return s
}
