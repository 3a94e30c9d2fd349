// Package sports holds the fixed catalog of supported sports.
package sports

// Catalog is the full list of supported sports, in display order.
var Catalog = []string{
	"football",
	"basketball",
	"tennis",
	"volleyball",
	"badminton",
	"table_tennis",
	"handball",
	"squash",
}

var valid = func() map[string]bool {
	m := make(map[string]bool, len(Catalog))
	for _, s := range Catalog {
		m[s] = true
	}
	return m
}()

// Valid reports whether s is in the catalog.
func Valid(s string) bool {
	return valid[s]
}
