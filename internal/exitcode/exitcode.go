package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	DBConnError     = 3
	QueryError      = 4
	SeedError       = 5
	ServeError      = 6
)
