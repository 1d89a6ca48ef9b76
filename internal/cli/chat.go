package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/teilomillet/pizzagpt"
	"github.com/teilomillet/pizzagpt/config"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask questions interactively, one per line",
		Long: `Chat reads questions from stdin, one per line, and prints each answer.
Type "exit" or "quit", or close stdin, to leave.

With --watch the configuration file is reloaded whenever it changes; the
next question goes out with the new settings.`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}
	cmd.Flags().Bool("watch", false, "Reload the --config file when it changes")
	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	svc, err := newService(cfg, logger)
	if err != nil {
		return err
	}

	s := &chatSession{
		svc:    svc,
		logger: logger,
		build: func(next *config.Config) (*pizzagpt.Service, error) {
			next = next.Clone()
			if err := applyFlags(cmd, next); err != nil {
				return nil, err
			}
			return newService(next, logger)
		},
	}
	defer func() { s.svc.Close() }()

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			return fmt.Errorf("--watch requires --config")
		}
		watcher, err := config.NewConfigWatcher(path, logger)
		if err != nil {
			return err
		}
		defer watcher.Close()
		s.updates = watcher.Subscribe()
	}

	return s.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// chatSession answers questions line by line. A pending configuration
// update is applied before each question by swapping the whole service.
type chatSession struct {
	svc     *pizzagpt.Service
	build   func(*config.Config) (*pizzagpt.Service, error)
	updates <-chan *config.Config
	logger  *zap.Logger
}

func (s *chatSession) run(ctx context.Context, in io.Reader, out, errOut io.Writer) error {
	interactive := isTerminal(in)
	scanner := bufio.NewScanner(in)

	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		s.applyUpdate()

		answer, err := s.svc.GetResponse(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(errOut, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, answer)
	}
}

// applyUpdate swaps in a service built from the latest configuration, if
// one arrived. A configuration that fails to build leaves the current
// service in place.
func (s *chatSession) applyUpdate() {
	if s.updates == nil {
		return
	}

	select {
	case cfg, ok := <-s.updates:
		if !ok {
			s.updates = nil
			return
		}
		svc, err := s.build(cfg)
		if err != nil {
			s.logger.Warn("Keeping previous configuration", zap.Error(err))
			return
		}
		s.svc.Close()
		s.svc = svc
		s.logger.Info("Configuration reloaded")
	default:
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
