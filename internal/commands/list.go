package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskscribe/internal/board"
	"taskscribe/internal/config"
	"taskscribe/internal/exitcode"
	"taskscribe/internal/output"
	"taskscribe/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskscribe` (no args) and `taskscribe list`.
type ListCmd struct {
	status   string
	priority string
}

// SetFilter sets the filter flags (for testing).
func (c *ListCmd) SetFilter(status, priority string) {
	c.status = status
	c.priority = priority
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks, newest first" }
func (c *ListCmd) Usage() string {
	return "taskscribe list [--status all|open|completed] [--priority all|Low|Medium|High]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	c.status, c.priority = "", ""
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.status, "s", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	// Flags win over configured defaults
	status := c.status
	if status == "" {
		status = cfg.DefaultStatus
	}
	priority := c.priority
	if priority == "" {
		priority = cfg.DefaultPriority
	}

	statusFilter, err := board.ParseStatusFilter(status)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	priorityFilter, err := board.ParsePriorityFilter(priority)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	b, err := openBoard(ctx, cfg, svc)
	if err != nil {
		return report(errOut, err)
	}
	defer b.Close()
	b.SetFilter(board.Filter{Status: statusFilter, Priority: priorityFilter})

	view := b.View()
	open, completed := b.Counts()

	switch {
	case open+completed == 0:
		if !cfg.Quiet {
			fmt.Fprintln(out, output.EmptyBoard)
		}
		return exitcode.Success
	case len(view) == 0:
		if !cfg.Quiet {
			fmt.Fprintln(out, output.NoMatches)
		}
		return exitcode.Success
	}

	output.FormatBoard(out, view)
	if !cfg.Quiet {
		fmt.Fprintln(out)
		output.FormatSummary(out, len(view), open, completed, b.Filter())
	}
	return exitcode.Success
}
