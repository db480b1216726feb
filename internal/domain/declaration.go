package domain

// Declaration holds the categories declared on a test and on its enclosing suite.
// An empty string means "not declared".
type Declaration struct {
	Method string
	Suite  string
}

// Category returns the declared category, checking the test itself before its suite.
func (d Declaration) Category() (string, bool) {
	if d.Method != "" {
		return d.Method, true
	}
	if d.Suite != "" {
		return d.Suite, true
	}
	return "", false
}
