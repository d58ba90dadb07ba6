package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Products(ctx context.Context) error
	Bookings(ctx context.Context) error
	Book(ctx context.Context) error
	SetStatus(ctx context.Context, args []string) error
	Cancel(ctx context.Context, args []string) error
}

// runREPL reads commands line by line and dispatches them to a. It returns
// on EOF or on "exit"/"quit". Command errors are printed and the loop goes on.
//
//	Not logged in: help, register, login, products, exit
//	Logged in:     help, me, products, bookings, book, status <id> <status>,
//	               cancel <id>, logout, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("eliteglam (%s) > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn("Available commands: me, products, bookings, book, status <id> <status>, cancel <id>, logout, exit")
			} else {
				printlnFn("Available commands: register, login, products, exit")
			}
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "me":
			err = a.Me(ctx)
		case "products":
			err = a.Products(ctx)
		case "bookings":
			err = a.Bookings(ctx)
		case "book":
			err = a.Book(ctx)
		case "status":
			err = a.SetStatus(ctx, args)
		case "cancel":
			err = a.Cancel(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
