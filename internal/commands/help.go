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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskscribe help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskscribe                                         List all tasks
  taskscribe list [common flags] [--status <s>] [--priority <p>]
  taskscribe extract [common flags] [--file <path>|-] [text...]
  taskscribe done [common flags] <id>
  taskscribe undo [common flags] <id>
  taskscribe edit [common flags] <id> [--description <text>] [--owner <name>]
                  [--deadline <text>] [--priority <p>]
  taskscribe rm [common flags] <id>
  taskscribe board [common flags]                    Interactive board
  taskscribe login [common flags] [--token <token>]
  taskscribe logout [common flags]
  taskscribe help
  taskscribe version

Filters:
  --status    all, open, completed
  --priority  all, Low, Medium, High

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TASKSCRIBE_URL       Task service address (default http://localhost:8000)
  TASKSCRIBE_TOKEN     Bearer token, overrides the stored session
  TASKSCRIBE_TIMEOUT   Per-request timeout, e.g. 10s
`
