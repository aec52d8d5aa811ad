package suite

// Run opens a suite scope around fn: it begins the suite, runs
// fn against it, and finishes the scope when fn returns. The
// header therefore precedes and the tally follows everything fn
// submits, and the parent scope's routing is restored even when
// fn panics. The finished suite is returned for inspection.
func Run(
	fileLocation, description string,
	fn func(*Suite),
	opts ...Option,
) *Suite {
	s := Begin(fileLocation, description, opts...)
	defer s.Finish()
	fn(s)
	return s
}
