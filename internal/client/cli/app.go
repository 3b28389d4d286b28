// Package cli implements the interactive command loop of the AuthGate
// client: register, login, and whoami against a running server.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/avoshkin/authgate/internal/client/api"
)

// Service is the subset of the API client used by the command loop.
type Service interface {
	Register(ctx context.Context, email, username, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, accessToken string) (*api.Summary, error)
}

type App struct {
	svc Service
	in  *bufio.Reader
	out io.Writer

	// accessToken holds the bearer token of the current session, set by a
	// successful login.
	accessToken string
}

func NewApp(svc Service, in io.Reader, out io.Writer) *App {
	return &App{svc: svc, in: bufio.NewReader(in), out: out}
}

func (a *App) showLogin() string {
	if a.accessToken == "" {
		return "(anonymous)"
	}
	return "(authenticated)"
}

// Main runs the command loop until "exit" or EOF.
func (a *App) Main(ctx context.Context) {

	fmt.Fprintln(a.out, "AuthGate CLI (type 'help' for commands)")

	for {
		fmt.Fprintf(a.out, "authgate %s > ", a.showLogin())

		line, err := a.in.ReadString('\n')
		if err != nil && line == "" {
			break
		}

		switch strings.TrimSpace(line) {
		case "":
			continue
		case "help":
			a.printHelp()
		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "whoami":
			a.whoami(ctx)
		case "exit", "quit":
			return
		default:
			fmt.Fprintln(a.out, "unknown command, type 'help' for commands")
		}
	}
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, `Commands:
  register  create a new account
  login     authenticate and keep the bearer token for this session
  whoami    show the account of the current session
  exit      leave`)
}

func (a *App) register(ctx context.Context) {
	email, err := GetSimpleText(a.in, "Enter email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	username, err := GetSimpleText(a.in, "Enter username", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	msg, err := a.svc.Register(ctx, email, username, password)
	if err != nil {
		fmt.Fprintf(a.out, "registration failed: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, msg)
}

func (a *App) login(ctx context.Context) {
	email, err := GetSimpleText(a.in, "Enter email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	token, err := a.svc.Login(ctx, email, password)
	if err != nil {
		fmt.Fprintf(a.out, "login failed: %v\n", err)
		return
	}

	a.accessToken = token
	fmt.Fprintln(a.out, "logged in")
}

func (a *App) whoami(ctx context.Context) {
	if a.accessToken == "" {
		fmt.Fprintln(a.out, "not logged in")
		return
	}

	summary, err := a.svc.Me(ctx, a.accessToken)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	fmt.Fprintf(a.out, "id=%d email=%s username=%s created_at=%s\n",
		summary.ID, summary.Email, summary.Username, summary.CreatedAt.Format("2006-01-02 15:04:05"))
}
