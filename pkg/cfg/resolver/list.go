package resolver

// Resolver replaces substrings with a special meaning in strings.
type Resolver interface {
	Resolve(string) (string, error)
}

// List applies resolvers in order, every resolver gets the result of the
// previous one.
type List []Resolver

func (l List) Resolve(in string) (string, error) {
	var err error
	result := in

	for _, r := range l {
		result, err = r.Resolve(result)
		if err != nil {
			return "", err
		}
	}

	return result, nil
}
