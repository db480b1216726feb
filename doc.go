// Package timelimit checks that tests finish within the runtime bound of
// their declared category.
//
// A test declares its category and the check runs when the test ends:
//
//	func TestCheckout(t *testing.T) {
//		timelimit.Short(t)
//		...
//	}
//
// The built-in categories are short [0ms, 100ms], medium [80ms, 500ms],
// long [400ms, 1500ms] and eternal [1500ms, inf]. Both edges are inclusive.
// Each edge may be overridden through the environment, for example
// TIMELIMIT_TIMEOUT_SHORT_UPPER=150, or through the YAML file named by
// TIMELIMIT_CONFIG_FILE. Custom categories need both edges configured.
//
// A test that runs outside its bound fails with a message suggesting the
// smallest built-in category that would have fit.
package timelimit
