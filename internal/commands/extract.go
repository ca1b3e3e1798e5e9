package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskscribe/internal/config"
	"taskscribe/internal/exitcode"
	"taskscribe/internal/service"
)

// maxTranscriptBytes bounds how much of a transcript file is read.
const maxTranscriptBytes = 1 << 20

func init() {
	Register(&ExtractCmd{})
}

// ExtractCmd implements the extract command.
type ExtractCmd struct {
	file string
	in   io.Reader
}

// SetInput sets the reader used for --file - (for testing).
func (c *ExtractCmd) SetInput(r io.Reader) {
	c.in = r
}

// SetFile sets the transcript file (for testing).
func (c *ExtractCmd) SetFile(path string) {
	c.file = path
}

func (c *ExtractCmd) Name() string      { return "extract" }
func (c *ExtractCmd) Aliases() []string { return []string{"x"} }
func (c *ExtractCmd) Synopsis() string  { return "Extract tasks from a meeting transcript" }
func (c *ExtractCmd) Usage() string     { return "taskscribe extract [--file <path>|-] [text...]" }
func (c *ExtractCmd) NeedsAuth() bool   { return true }

func (c *ExtractCmd) RegisterFlags(fs *flag.FlagSet) {
	c.file = ""
	fs.StringVar(&c.file, "file", "", "")
	fs.StringVar(&c.file, "f", "", "")
}

func (c *ExtractCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.file != "" && len(args) > 0 {
		fmt.Fprintln(errOut, "error: cannot use both --file and transcript text")
		return exitcode.UserError
	}

	text := strings.Join(args, " ")
	if c.file != "" {
		var err error
		if text, err = c.readTranscript(); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	b, err := openBoard(ctx, cfg, svc)
	if err != nil {
		return report(errOut, err)
	}
	defer b.Close()

	before := len(b.Tasks())
	b.SetInput(text)
	if err := b.Extract(ctx, b.Input()); err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok (%d tasks on board, was %d)\n", len(b.Tasks()), before)
	}
	return exitcode.Success
}

func (c *ExtractCmd) readTranscript() (string, error) {
	var r io.Reader
	if c.file == "-" {
		r = c.in
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(c.file)
		if err != nil {
			return "", fmt.Errorf("failed to read transcript: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxTranscriptBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}
	return string(data), nil
}
