package views

// Dispatched is a custom vaxis event carrying a completion to run on the UI
// loop. Background goroutines post it via PostEvent so that view state is
// only touched from the event loop.
type Dispatched struct {
	Fn func()
}
