package snapdiff

import "errors"

// Sink consumes a comparison result: a terminal, a spreadsheet, a file.
type Sink interface {
	Write(r *Result) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(r *Result) error

func (f SinkFunc) Write(r *Result) error { return f(r) }

// Publish writes r to every sink, even if some fail, and returns the joined errors.
func Publish(r *Result, sinks ...Sink) error {
	var errs []error
	for _, s := range sinks {
		if err := s.Write(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
