package resolver

import "strings"

// StrReplacement replaces every occurrence of Old with New.
// An empty Old leaves the input unchanged.
type StrReplacement struct {
	Old string
	New string
}

func (s *StrReplacement) Resolve(in string) (string, error) {
	if s.Old == "" {
		return in, nil
	}

	return strings.ReplaceAll(in, s.Old, s.New), nil
}
