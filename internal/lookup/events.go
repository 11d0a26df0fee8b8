package lookup

// Event is a notification emitted by a Machine to its subscribers.
type Event interface {
	event()
}

// SearchRequested asks the host to run the provider. Dispatch is
// fire-and-forget: the machine does not wait for an answer.
type SearchRequested struct {
	Request SearchRequest
}

// SearchFailed reports a provider rejection handed back through
// Machine.SearchFailed. Results and selection are left untouched.
type SearchFailed struct {
	Query string
	Err   error
}

// ChangeDetail lets a parent cascade state into a dependent lookup.
type ChangeDetail struct {
	DisableDependentInput   bool
	ClearDependentSelection bool
	ParentID                string // ID to scope the dependent lookup to
}

// SelectionChanged is emitted after every selection mutation.
type SelectionChanged struct {
	Selection []Result
	Detail    ChangeDetail
}

// SelectionEmptied is emitted, in addition to SelectionChanged, when a
// removal or clear leaves the selection empty.
type SelectionEmptied struct{}

func (SearchRequested) event()  {}
func (SearchFailed) event()     {}
func (SelectionChanged) event() {}
func (SelectionEmptied) event() {}

// Listener receives machine events synchronously, on the goroutine that
// drives the machine.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}
