package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskscribe/internal/board"
	"taskscribe/internal/config"
	"taskscribe/internal/exitcode"
	"taskscribe/internal/service"
	"taskscribe/internal/tui"
)

func init() {
	Register(&BoardCmd{})
}

// BoardCmd implements the board command, the interactive task board.
type BoardCmd struct{}

func (c *BoardCmd) Name() string      { return "board" }
func (c *BoardCmd) Aliases() []string { return []string{"ui"} }
func (c *BoardCmd) Synopsis() string  { return "Open the interactive task board" }
func (c *BoardCmd) Usage() string     { return "taskscribe board [common flags]" }
func (c *BoardCmd) NeedsAuth() bool   { return true }

func (c *BoardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *BoardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	statusFilter, err := board.ParseStatusFilter(cfg.DefaultStatus)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	priorityFilter, err := board.ParsePriorityFilter(cfg.DefaultPriority)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	b := board.New(svc, cfg.Log)
	defer b.Close()
	b.SetFilter(board.Filter{Status: statusFilter, Priority: priorityFilter})

	if err := tui.Run(ctx, b, out); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
