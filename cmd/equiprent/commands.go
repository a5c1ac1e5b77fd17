package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"equiprent/internal/booking"
	"equiprent/internal/dashboard"
	"equiprent/internal/domain"
	"equiprent/internal/equipment"
	"equiprent/internal/notify"
	"equiprent/internal/session"
)

var errUsage = errors.New("invalid usage, run with -h for help")

const dateLayout = "2006-01-02"

type app struct {
	out      io.Writer
	listing  *equipment.Listing
	session  *session.Store
	switcher *dashboard.Switcher
	email    string
	password string
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "signup":
		if len(args) != 1 {
			return errUsage
		}
		return a.signUp(ctx, args[0])
	case "whoami":
		return a.withSignIn(ctx, a.whoami)
	case "dashboard":
		role := ""
		if len(args) > 0 {
			role = args[0]
		}
		return a.withSignIn(ctx, func(ctx context.Context) error { return a.dashboard(ctx, role) })
	case "approve", "reject":
		if len(args) != 1 {
			return errUsage
		}
		return a.withSignIn(ctx, func(ctx context.Context) error { return a.decide(ctx, cmd, args[0]) })
	case "toggle":
		if len(args) != 1 {
			return errUsage
		}
		return a.withSignIn(ctx, func(ctx context.Context) error { return a.toggle(ctx, args[0]) })
	case "browse":
		return a.browse(ctx, args)
	case "list-equipment":
		if len(args) < 3 || len(args) > 4 {
			return errUsage
		}
		return a.withSignIn(ctx, func(ctx context.Context) error { return a.listEquipment(ctx, args) })
	case "book":
		if len(args) != 3 {
			return errUsage
		}
		return a.withSignIn(ctx, func(ctx context.Context) error { return a.book(ctx, args) })
	case "signout":
		return a.withSignIn(ctx, func(ctx context.Context) error { return nil })
	}
	return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
}

// withSignIn runs fn inside a fresh session. Every invocation is its own
// session, revoked again on the way out.
func (a *app) withSignIn(ctx context.Context, fn func(context.Context) error) error {
	if a.email == "" || a.password == "" {
		return fmt.Errorf("set -email and -password (or EQUIPRENT_EMAIL and EQUIPRENT_PASSWORD): %w", errUsage)
	}
	if err := a.session.SignIn(ctx, a.email, a.password); err != nil {
		return err
	}
	err := fn(ctx)
	a.switcher.Close()
	if serr := a.session.SignOut(context.WithoutCancel(ctx)); serr != nil && err == nil {
		err = serr
	}
	return err
}

func (a *app) signUp(ctx context.Context, rolesArg string) error {
	var roles []domain.Role
	for _, s := range strings.Split(rolesArg, ",") {
		r, err := domain.ParseRole(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		roles = append(roles, r)
	}
	if err := a.session.SignUp(ctx, a.email, a.password, roles); err != nil {
		return err
	}
	st := a.session.State()
	fmt.Fprintf(a.out, "Created %s (%s) with roles %s\n", st.Identity.Email, st.Identity.ID, joinRoles(st.Roles))
	return a.session.SignOut(ctx)
}

func (a *app) whoami(ctx context.Context) error {
	st := a.session.State()
	fmt.Fprintf(a.out, "%s\t%s\nroles: %s\n", st.Identity.Email, st.Identity.ID, joinRoles(st.Roles))
	return nil
}

func (a *app) dashboard(ctx context.Context, roleArg string) error {
	var (
		d   dashboard.Dashboard
		err error
	)
	if roleArg == "" {
		d, err = a.switcher.Mount(ctx)
	} else {
		role, perr := domain.ParseRole(roleArg)
		if perr != nil {
			return perr
		}
		d, err = a.switcher.Switch(ctx, role)
	}
	if d == nil {
		return err
	}
	switch v := d.(type) {
	case *dashboard.Owner:
		printOwner(a.out, v.View())
	case *dashboard.Renter:
		printRenter(a.out, v.View())
	}
	return err
}

func (a *app) owner(ctx context.Context) (*dashboard.Owner, error) {
	d, err := a.switcher.Switch(ctx, domain.RoleOwner)
	if err != nil {
		return nil, err
	}
	return d.(*dashboard.Owner), nil
}

func (a *app) renter(ctx context.Context) (*dashboard.Renter, error) {
	d, err := a.switcher.Switch(ctx, domain.RoleRenter)
	if err != nil {
		return nil, err
	}
	return d.(*dashboard.Renter), nil
}

func (a *app) decide(ctx context.Context, cmd, bookingID string) error {
	o, err := a.owner(ctx)
	if err != nil {
		return err
	}
	if cmd == "approve" {
		err = o.Approve(ctx, bookingID)
	} else {
		err = o.Reject(ctx, bookingID)
	}
	if err != nil {
		return err
	}
	verb := "approved"
	if cmd == "reject" {
		verb = "declined"
	}
	fmt.Fprintf(a.out, "Booking %s %s\n", bookingID, verb)
	printBookings(a.out, o.Requests(domain.BookingStatusPending))
	return nil
}

func (a *app) toggle(ctx context.Context, equipmentID string) error {
	o, err := a.owner(ctx)
	if err != nil {
		return err
	}
	if err := o.ToggleEquipment(ctx, equipmentID); err != nil {
		return err
	}
	printEquipment(a.out, o.View().Equipment)
	return nil
}

func (a *app) browse(ctx context.Context, args []string) error {
	f := domain.EquipmentFilter{Status: domain.EquipmentStatusAvailable}
	if len(args) > 0 {
		f.Type = args[0]
	}
	if len(args) > 1 {
		f.Query = strings.Join(args[1:], " ")
	}
	items, err := a.listing.Browse(ctx, f)
	if err != nil {
		return err
	}
	printEquipment(a.out, items)
	return nil
}

func (a *app) listEquipment(ctx context.Context, args []string) error {
	rate, err := parseCents(args[2])
	if err != nil {
		return err
	}
	d := equipment.Draft{
		OwnerID:        a.session.State().Identity.ID,
		Title:          args[0],
		Type:           args[1],
		DailyRateCents: rate,
	}
	if len(args) == 4 {
		f, err := os.Open(args[3])
		if err != nil {
			return err
		}
		defer f.Close()
		d.Image = &equipment.Image{
			Filename:    filepath.Base(args[3]),
			ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(args[3]))),
			Body:        f,
		}
	}

	o, err := a.owner(ctx)
	if err != nil {
		return err
	}
	e, err := a.listing.Create(ctx, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Listed %s (%s) at %s/day\n", e.Title, e.ID, notify.FormatCents(e.DailyRateCents))
	if err := o.Load(ctx); err != nil {
		return err
	}
	printEquipment(a.out, o.View().Equipment)
	return nil
}

func (a *app) book(ctx context.Context, args []string) error {
	start, err := time.Parse(dateLayout, args[1])
	if err != nil {
		return fmt.Errorf("start date: %w", errUsage)
	}
	end, err := time.Parse(dateLayout, args[2])
	if err != nil {
		return fmt.Errorf("end date: %w", errUsage)
	}
	r, err := a.renter(ctx)
	if err != nil {
		return err
	}
	b, err := r.Book(ctx, args[0], start, end)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Requested booking %s for %d days, %s\n",
		b.ID, domain.RentalDays(b.StartDate, b.EndDate), notify.FormatCents(booking.DisplayTotal(*b)))
	return nil
}

// parseCents reads a dollar amount such as "12" or "12.50".
func parseCents(s string) (int64, error) {
	whole, frac, hasFrac := strings.Cut(strings.TrimPrefix(s, "$"), ".")
	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || dollars < 0 {
		return 0, fmt.Errorf("rate %q: %w", s, errUsage)
	}
	cents := int64(0)
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		if len(frac) != 2 {
			return 0, fmt.Errorf("rate %q: %w", s, errUsage)
		}
		if cents, err = strconv.ParseInt(frac, 10, 64); err != nil || cents < 0 {
			return 0, fmt.Errorf("rate %q: %w", s, errUsage)
		}
	}
	return dollars*100 + cents, nil
}

func joinRoles(roles []domain.Role) string {
	if len(roles) == 0 {
		return "(none)"
	}
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

func printOwner(w io.Writer, v dashboard.OwnerView) {
	fmt.Fprintf(w, "Equipment: %d  Active: %d  Pending: %d  Earnings: %s\n\n",
		v.Stats.TotalEquipment, v.Stats.ActiveBookings, v.Stats.PendingRequests, notify.FormatCents(v.Stats.TotalEarnings))
	printEquipment(w, v.Equipment)
	fmt.Fprintln(w)
	printBookings(w, v.Bookings)
	if v.LastError != nil {
		fmt.Fprintf(w, "\nsome data failed to load: %v\n", v.LastError)
	}
}

func printRenter(w io.Writer, v dashboard.RenterView) {
	fmt.Fprintf(w, "Bookings: %d  Active: %d  Pending: %d\n\n",
		v.Stats.TotalBookings, v.Stats.ActiveBookings, v.Stats.PendingBookings)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEQUIPMENT\tFROM\tTO\tSTATUS\tTOTAL")
	for _, b := range v.Bookings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", b.ID, equipmentTitle(b.Booking),
			b.StartDate.Format(dateLayout), b.EndDate.Format(dateLayout), b.Status, notify.FormatCents(b.DisplayTotal))
	}
	tw.Flush()
}

func printEquipment(w io.Writer, items []domain.Equipment) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tRATE/DAY\tSTATUS")
	for _, e := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Title, e.Type, notify.FormatCents(e.DailyRateCents), e.Status)
	}
	tw.Flush()
}

func printBookings(w io.Writer, bookings []domain.Booking) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEQUIPMENT\tRENTER\tFROM\tTO\tSTATUS\tTOTAL\tACTIONS")
	for _, b := range bookings {
		renter := b.RenterID
		if b.Renter != nil && b.Renter.Email != "" {
			renter = b.Renter.Email
		}
		actions := make([]string, 0, 2)
		for _, act := range booking.Actions(b) {
			actions = append(actions, string(act))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", b.ID, equipmentTitle(b), renter,
			b.StartDate.Format(dateLayout), b.EndDate.Format(dateLayout), b.Status,
			notify.FormatCents(booking.DisplayTotal(b)), strings.Join(actions, ","))
	}
	tw.Flush()
}

func equipmentTitle(b domain.Booking) string {
	if b.Equipment == nil {
		return b.EquipmentID
	}
	return b.Equipment.Title
}
