package timelimit

// Suite groups tests sharing a category. A category given to LimitAs takes
// precedence over the suite's.
type Suite struct {
	category string
	checker  *Checker
}

// NewSuite creates a Suite whose checks load configuration from the environment.
func NewSuite(category string) *Suite {
	return &Suite{category: category}
}

// Suite creates a Suite backed by c.
func (c *Checker) Suite(category string) *Suite {
	return &Suite{category: category, checker: c}
}

// Category returns the suite's category.
func (s *Suite) Category() string {
	return s.category
}

// Limit checks t against the suite's category.
func (s *Suite) Limit(t TB) {
	t.Helper()
	s.LimitAs(t, "")
}

// LimitAs checks t against category, or against the suite's category when
// category is empty.
func (s *Suite) LimitAs(t TB, category string) {
	t.Helper()

	decl := Declaration{Method: category, Suite: s.category}
	if s.checker != nil {
		s.checker.Check(t, decl)
		return
	}

	if c, ok := decl.Category(); ok {
		Limit(t, c)
	}
}
