// Package cli implements the notably command tree. The CLI is the
// terminal error handler: façades and the session pass failures
// through, and the commands here decide what the user sees.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	notably "github.com/notably/notably.go"
	"github.com/notably/notably.go/internal/config"
	"github.com/notably/notably.go/pkg/logger"
	"github.com/notably/notably.go/pkg/storage"
)

// app carries the wired client through the command tree. It is
// initialized once in the root command's PersistentPreRunE.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	client *notably.Client
	out    io.Writer
	in     io.Reader
	reader *bufio.Reader
}

// Execute runs the CLI with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{out: os.Stdout, in: os.Stdin})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "notably",
		Short:         "Notes client for the Notably API",
		Long:          "notably is a command-line client for the Notably multi-tenant notes service.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newNotesCmd(a),
		newTenantCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	a.cfg = cfg

	build := logger.New().LevelString(cfg.LogLevel)
	if cfg.LogFormat == "console" {
		build = build.Console()
	}
	log, err := build.Make()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.log = log

	store, err := storage.OpenFile(cfg.StateFile, log)
	if err != nil {
		return fmt.Errorf("open state file %s: %w", cfg.StateFile, err)
	}

	a.client = notably.New(cfg.APIBaseURL, store, notably.WithLogger(log))
	return nil
}

// requireAuth restores the session and fails when no one is signed in.
func (a *app) requireAuth() (notably.State, error) {
	state := a.client.Session.Restore()
	if !state.Authenticated {
		return state, errors.New("not logged in, run 'notably login' first")
	}
	return state, nil
}

// promptLine reads one line from stdin after printing the prompt. Used
// for values not supplied as flags, like passwords. One buffered reader
// is shared across prompts: a fresh reader per call would buffer ahead
// and swallow the lines meant for later prompts.
func (a *app) promptLine(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	if a.reader == nil {
		a.reader = bufio.NewReader(a.in)
	}
	line, err := a.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
