package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"taskscribe/internal/board"
	"taskscribe/internal/config"
	"taskscribe/internal/exitcode"
	"taskscribe/internal/service"
)

// report prints err in the CLI's error format and returns the exit code
// for its class.
func report(errOut io.Writer, err error) int {
	var reloadErr *board.ReloadError

	switch {
	case errors.As(err, &reloadErr):
		fmt.Fprintf(errOut, "error: change saved but reload failed: %v\n", reloadErr.Err)
		return exitcode.BackendError
	case errors.Is(err, service.ErrUnauthorized):
		fmt.Fprintf(errOut, "error: auth error: %v (run: taskscribe login)\n", err)
		return exitcode.AuthError
	case errors.Is(err, board.ErrEmptyTranscript):
		fmt.Fprintln(errOut, "error: transcript required")
		return exitcode.UserError
	case errors.Is(err, board.ErrTaskNotFound),
		errors.Is(err, board.ErrInvalidFields),
		errors.Is(err, board.ErrNoEditSession),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrRejected):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.BackendError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// openBoard creates a board over svc and performs the initial load.
func openBoard(ctx context.Context, cfg *config.Config, svc service.Service) (*board.Board, error) {
	b := board.New(svc, cfg.Log)
	if err := b.Load(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// requireTask fails with board.ErrTaskNotFound if id is not on the board.
func requireTask(b *board.Board, id int64) error {
	if _, ok := b.Task(id); !ok {
		return fmt.Errorf("%w: %d", board.ErrTaskNotFound, id)
	}
	return nil
}

// printOK prints the success marker unless quiet.
func printOK(cfg *config.Config, out io.Writer) {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
}
