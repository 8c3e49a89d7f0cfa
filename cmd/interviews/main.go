// Command interviews is the terminal client for the interview list:
// register, log in, and manage tracked interviews.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/blockedby/interview-list/internal/backend"
	"github.com/blockedby/interview-list/internal/config"
	"github.com/blockedby/interview-list/internal/logger"
	"github.com/blockedby/interview-list/internal/notify"
	"github.com/blockedby/interview-list/internal/remote"
	"github.com/blockedby/interview-list/internal/routes"
	"github.com/blockedby/interview-list/internal/session"
	"github.com/blockedby/interview-list/internal/store"
)

const usage = `usage: interviews <command> [flags]

commands:
  register   create an account (--email, --password, --confirm)
  login      sign in (--email, --password)
  logout     sign out
  whoami     print the signed-in user
  list       list interviews, newest first
  add        add an interview (see: interviews add -h)
  show ID    print one interview
  edit ID    change fields of an interview
  delete ID  delete an interview
  stats      count interviews per status (--server to ask the backend)
  watch      keep the list up to date as it changes
`

// errReported marks failures the user has already been shown.
var errReported = errors.New("reported")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()

	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// app wires the client stores for one command invocation.
type app struct {
	out        io.Writer
	log        *logger.Logger
	client     *backend.Client
	sessions   *session.FileStore
	router     *routes.Router
	notifier   *notify.Notifier
	users      *store.UserStore
	interviews *store.InterviewStore
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stdout, usage)
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.NewWithWriter(cfg.LogLevel, "", zerolog.ConsoleWriter{Out: stderr, TimeFormat: "15:04:05"})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.Set(log)

	a := newApp(cfg, log, stdout, stderr)
	if err := a.client.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("could not restore session")
	}
	<-a.users.InitAuth()
	defer a.users.Close()

	return cmd(ctx, a, args[1:])
}

func newApp(cfg *config.Config, log *logger.Logger, stdout, stderr io.Writer) *app {
	sessions := session.NewFileStore(cfg.SessionFile)
	client := backend.New(cfg.APIURL,
		backend.WithSessionStore(sessions),
		backend.WithLogger(log),
	)
	svc := remote.New(client, client)

	router := routes.NewRouter(nil)
	notifier := notify.New(notify.NewTerminalSink(stderr, log))
	users := store.NewUserStore(svc, router, notifier, log)
	router.SetAuth(users)

	return &app{
		out:        stdout,
		log:        log,
		client:     client,
		sessions:   sessions,
		router:     router,
		notifier:   notifier,
		users:      users,
		interviews: store.NewInterviewStore(svc, users, notifier, log),
	}
}

// enter navigates to path and fails when the guard sends the user to login.
func (a *app) enter(path string) error {
	loc := a.router.Navigate(path)
	if loc.Name == routes.Login {
		a.notifier.Notify("Please log in first: interviews login --email ... --password ...", notify.Warning)
		return errReported
	}
	return nil
}
