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
)

func init() {
	Register(&DoneCmd{})
	Register(&UndoCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "taskscribe done <id>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runToggle(ctx, cfg, svc, args, out, errOut, (*board.Board).Complete)
}

// UndoCmd implements the undo command, the inverse of done.
type UndoCmd struct{}

func (c *UndoCmd) Name() string      { return "undo" }
func (c *UndoCmd) Aliases() []string { return []string{"reopen"} }
func (c *UndoCmd) Synopsis() string  { return "Reopen a completed task" }
func (c *UndoCmd) Usage() string     { return "taskscribe undo <id>" }
func (c *UndoCmd) NeedsAuth() bool   { return true }

func (c *UndoCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UndoCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runToggle(ctx, cfg, svc, args, out, errOut, (*board.Board).Reopen)
}

// runToggle is the shared implementation for done and undo.
func runToggle(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer,
	apply func(*board.Board, context.Context, int64) error) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	b, err := openBoard(ctx, cfg, svc)
	if err != nil {
		return report(errOut, err)
	}
	defer b.Close()

	if err := requireTask(b, id); err != nil {
		return report(errOut, err)
	}
	if err := apply(b, ctx, id); err != nil {
		return report(errOut, err)
	}

	printOK(cfg, out)
	return exitcode.Success
}
