package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/pwvault/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Show(ctx context.Context) error
	Delete(ctx context.Context) error
	Export(ctx context.Context) error
	Import(ctx context.Context, path string) error
	Backups(ctx context.Context) error
	Info(ctx context.Context, path string) error
	RemoveBackup(ctx context.Context, path string) error
	Analyze(ctx context.Context) error
	Generate(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, analyze, generate, backups, help, exit"
	helpLoggedIn  = "Available commands: list, add, show, delete, export, import [file], backups, info [file], rmbackup [file], analyze, generate [memorable|<length>] [nosymbols], logout, help, exit"
)

// runREPL starts a simple read-eval-print loop for the vault CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Handlers prompt through the same reader, so no
// input is buffered away from them. The loop exits on EOF or when the user
// types "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - register, login
//	  - analyze, generate  : password tools
//	  - backups            : list backup files
//	  - help, exit | quit
//
//	Logged in, additionally:
//	  - list, add, show, delete          : manage entries
//	  - export, import, info, rmbackup   : manage backups
//	  - logout
//
// Errors returned by command handlers are printed as user-facing messages
// and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("pwvault%s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if cmd == "help" {
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		}

		handler, needsLogin, ok := lookup(a, cmd, args)
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if needsLogin && !a.isLoggedIn() {
			printlnFn("Error:", common.Message(common.ErrNotLoggedIn))
			continue
		}
		if err := handler(ctx); err != nil {
			printlnFn("Error:", common.Message(err))
		}
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// lookup maps a command to its handler and tells whether it needs a session.
func lookup(a execIface, cmd string, args []string) (func(context.Context) error, bool, bool) {
	switch cmd {
	case "register":
		return a.Register, false, true
	case "login":
		return a.Login, false, true
	case "logout":
		return a.Logout, true, true
	case "l", "list":
		return a.List, true, true
	case "add":
		return a.Add, true, true
	case "show":
		return a.Show, true, true
	case "delete":
		return a.Delete, true, true
	case "export":
		return a.Export, true, true
	case "import":
		return func(ctx context.Context) error { return a.Import(ctx, firstArg(args)) }, true, true
	case "backups":
		return a.Backups, false, true
	case "info":
		return func(ctx context.Context) error { return a.Info(ctx, firstArg(args)) }, false, true
	case "rmbackup":
		return func(ctx context.Context) error { return a.RemoveBackup(ctx, firstArg(args)) }, true, true
	case "analyze":
		return a.Analyze, false, true
	case "generate":
		return func(ctx context.Context) error { return a.Generate(ctx, args) }, false, true
	}
	return nil, false, false
}
