package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskscribe/internal/config"
	"taskscribe/internal/exitcode"
	"taskscribe/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskscribe rm <id>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
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
	if err := b.Remove(ctx, id); err != nil {
		return report(errOut, err)
	}

	printOK(cfg, out)
	return exitcode.Success
}
