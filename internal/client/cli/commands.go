package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/eliteglam/internal/client/client"
	"github.com/dmitrijs2005/eliteglam/internal/client/models"
	"github.com/dmitrijs2005/eliteglam/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errUsage = errors.New("usage")

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

func describe(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && len(apiErr.Details) > 0 {
		return fmt.Errorf("%s:\n  - %s", apiErr.Message, strings.Join(apiErr.Details, "\n  - "))
	}
	return err
}

func (a *App) Register(ctx context.Context) error {
	username, err := a.ask("Enter username")
	if err != nil {
		return err
	}
	email, err := a.ask("Enter email")
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	p, err := a.api.Register(ctx, models.RegisterRequest{
		Username:        username,
		Email:           email,
		Password:        string(password),
		PasswordConfirm: string(confirm),
	})
	if err != nil {
		return describe(err)
	}

	fmt.Fprintf(a.out, "Registered %s. You can login now.\n", p.Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := a.ask("Enter email")
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return describe(err)
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", u.Username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	p, err := a.api.Me(ctx)
	if err != nil {
		return describe(err)
	}

	fmt.Fprintf(a.out, "uid:      %s\nusername: %s\nemail:    %s\n", p.UID, p.Username, p.Email)
	if d := p.Details; d != nil {
		fmt.Fprintf(a.out, "name:     %s %s\n", d.FirstName, d.LastName)
	}
	return nil
}

func (a *App) Products(ctx context.Context) error {
	list, err := a.api.ListProducts(ctx)
	if err != nil {
		return describe(err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No products")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tQTY")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%d\n", p.ID, p.Name, p.Category, p.Price, p.Quantity)
	}
	return tw.Flush()
}

func (a *App) Bookings(ctx context.Context) error {
	list, err := a.api.ListBookings(ctx)
	if err != nil {
		return describe(err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No bookings")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tSERVICE\tWHEN\tSTATUS")
	for _, b := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s\n", b.ID, b.CustomerName, b.ServiceName, b.Date, b.Time, b.Status)
	}
	return tw.Flush()
}

func (a *App) Book(ctx context.Context) error {
	var in models.NewBooking
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Customer name", &in.CustomerName},
		{"Service", &in.ServiceName},
		{"Date (YYYY-MM-DD)", &in.Date},
		{"Time (HH:MM)", &in.Time},
	}
	for _, f := range fields {
		v, err := a.ask(f.prompt)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	priceText, err := a.ask("Price")
	if err != nil {
		return err
	}
	if in.Price, err = strconv.ParseFloat(priceText, 64); err != nil {
		return fmt.Errorf("invalid price %q", priceText)
	}

	if in.Notes, err = a.ask("Notes (optional)"); err != nil {
		return err
	}

	b, err := a.api.CreateBooking(ctx, in)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "Booked %s (%s)\n", b.ID, b.Status)
	return nil
}

func (a *App) SetStatus(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: status <id> <pending|confirmed|completed|cancelled>", errUsage)
	}

	b, err := a.api.SetBookingStatus(ctx, args[0], args[1])
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "Booking %s is %s\n", b.ID, b.Status)
	return nil
}

func (a *App) Cancel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: cancel <id>", errUsage)
	}

	b, err := a.api.CancelBooking(ctx, args[0])
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.out, "Booking %s is %s\n", b.ID, b.Status)
	return nil
}
