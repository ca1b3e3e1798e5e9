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
	Register(&EditCmd{})
}

type fieldEdit struct {
	name  string
	value string
}

// EditCmd implements the edit command. Only flags that are given change;
// an empty value clears owner or deadline.
type EditCmd struct {
	edits []fieldEdit
}

// Set records a field change (for testing).
func (c *EditCmd) Set(name, value string) {
	c.edits = append(c.edits, fieldEdit{name: name, value: value})
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit a task's description, owner, deadline or priority" }
func (c *EditCmd) Usage() string {
	return "taskscribe edit <id> [--description <text>] [--owner <name>] [--deadline <text>] [--priority Low|Medium|High]"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.edits = nil
	for _, name := range board.EditFields {
		fs.Func(name, "", func(v string) error {
			c.Set(name, v)
			return nil
		})
	}
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if len(c.edits) == 0 {
		fmt.Fprintln(errOut, "error: nothing to change (use --description, --owner, --deadline or --priority)")
		return exitcode.UserError
	}

	b, err := openBoard(ctx, cfg, svc)
	if err != nil {
		return report(errOut, err)
	}
	defer b.Close()

	if err := b.StartEdit(id); err != nil {
		return report(errOut, err)
	}
	for _, e := range c.edits {
		if err := b.SetDraftField(e.name, e.value); err != nil {
			_ = b.CancelEdit() // the session was opened above
			return report(errOut, err)
		}
	}

	s, _ := b.Editing()
	if err := b.SaveEdit(ctx); err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatDraft(out, s.Draft)
	}
	return exitcode.Success
}
