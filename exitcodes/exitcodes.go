// Package exitcodes defines the standard exit codes used by htmlreport.
package exitcodes

// Exit code constants used by htmlreport
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when the report renders and every test passed
// * TestFailure (1): Used when the report contains failed or errored tests
// * RuntimeErr (2): Used for runtime errors such as unreadable input or sink failures
const (
	Success     = 0 // All tests pass
	TestFailure = 1 // Test failures or errors in the report
	RuntimeErr  = 2 // Runtime errors
)
