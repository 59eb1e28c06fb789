package domain

// ExecCommand represents an external command to be executed.
// This type is used to pass command information between layers
// without exposing implementation details.
type ExecCommand struct {
	Program string
	Dir     string
	Stdin   string
	Args    []string
}

// NewCommand creates an ExecCommand for program with args.
func NewCommand(program string, args ...string) *ExecCommand {
	return &ExecCommand{
		Program: program,
		Args:    args,
	}
}

// ExecResult is the outcome of a command that ran to completion.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the command exited with status 0.
func (r *ExecResult) Success() bool {
	return r.ExitCode == 0
}
