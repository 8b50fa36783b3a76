package club

// Club is one participating club, keyed by the provider club id.
type Club struct {
	ID          int64
	Name        string
	Abbrev      string
	Slug        string
	Nickname    string
	DisplayName string
}
