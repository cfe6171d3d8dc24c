package sourcecode

// A LocatedError is an error that knows the position of the node it has been raised by.
type LocatedError interface {
	error
	MessageWithoutLocation() string
	Position() PositionRange
}

// A BuildError is returned by tree-builders when a description cannot be turned into nodes.
type BuildError struct {
	Message  string        `json:"message"`
	Location PositionRange `json:"location"`
}

func (err BuildError) Error() string {
	return err.Location.String() + " " + err.Message
}

func (err BuildError) MessageWithoutLocation() string {
	return err.Message
}

func (err BuildError) Position() PositionRange {
	return err.Location
}
