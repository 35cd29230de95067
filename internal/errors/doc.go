// Package errors provides coded, actionable errors for dragsort.
//
// Every error carries a code (e.g. "E201") registered with a category, a
// short message, a detail paragraph and a documentation URL:
//
//	err := errors.New("E201").
//	    WithDetail(`item "a" appears twice in container 0`).
//	    WithSuggestion("Give every item in a container a unique ID")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E201: Duplicate item ID
//	//
//	//   item "a" appears twice in container 0
//	//
//	//   Hint: Give every item in a container a unique ID
//	//
//	//   Learn more: https://vango.dev/docs/dragsort/errors/E201
//
// # Error Categories
//
//   - drag: controller misuse (duplicate ids, unknown items, missing geometry)
//   - protocol: malformed or unknown wire messages
//   - config: dragsort.json loading and validation
//   - cli: command line failures such as unreadable scenario files
package errors
