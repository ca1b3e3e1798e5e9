// Package commands implements the taskscribe subcommands on top of
// board.Board.
package commands

import (
	"context"
	"flag"
	"io"

	"taskscribe/internal/config"
	"taskscribe/internal/service"
)

// Command is one taskscribe subcommand. Commands are stateless between
// runs: RegisterFlags resets whatever the previous dispatch left behind.
type Command interface {
	Name() string

	// Aliases are alternative names, e.g. "ls" for list.
	Aliases() []string

	// Synopsis and Usage feed the help output.
	Synopsis() string
	Usage() string

	// NeedsAuth reports whether the command calls the task service. For
	// those commands the dispatcher builds an authorized client from the
	// stored session or TASKSCRIBE_TOKEN and fails with an auth error when
	// neither exists. Local commands (help, version, login, logout) get a
	// nil service.
	NeedsAuth() bool

	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command against svc with the positional args left
	// after flag parsing, and returns the process exit code. Board
	// commands open a board.Board over svc, perform one operation and
	// close it.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}
