// Command userctl is a terminal client for the user-management API. It
// keeps a persisted session (token plus user snapshot) so commands stay
// authenticated across invocations, mirroring the web client's local
// storage behaviour.
//
// Usage:
//
//	userctl [-server URL] <command> [flags]
//
// Commands: register, login, logout, me, list, get, create, update,
// delete, export.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/userhub/user-management/pkg/client"
)

func main() {
	_ = godotenv.Load()

	server := flag.String("server", envOr("USERCTL_SERVER", "http://localhost:8080"), "API base URL")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	sessions, err := client.DefaultSessionFile()
	if err != nil {
		fatal(err)
	}
	c, err := client.New(*server, sessions)
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()
	cmd, args := flag.Arg(0), flag.Args()[1:]

	switch cmd {
	case "register":
		err = runRegister(ctx, c, args)
	case "login":
		err = runLogin(ctx, c, args)
	case "logout":
		err = runLogout(ctx, c)
	case "me":
		err = runMe(ctx, c)
	case "list":
		err = runList(ctx, c, args)
	case "get":
		err = runGet(ctx, c, args)
	case "create":
		err = runCreate(ctx, c, args)
	case "update":
		err = runUpdate(ctx, c, args)
	case "delete":
		err = runDelete(ctx, c, args)
	case "export":
		err = runExport(ctx, c, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
}

func runRegister(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (min 8 characters)")
	phone := fs.String("phone", "", "phone number (optional)")
	_ = fs.Parse(args)

	data := client.RegisterData{
		Name:                 *name,
		Email:                *email,
		Password:             *password,
		PasswordConfirmation: *password,
		Phone:                *phone,
	}
	if errs := client.ValidateRegistration(data); len(errs) > 0 {
		return fieldErrors(errs)
	}

	user, err := c.Register(ctx, data)
	if err != nil {
		return err
	}
	fmt.Printf("Registered and logged in as %s <%s>\n", client.SanitizeInput(user.Name), user.Email)
	return nil
}

func runLogin(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	user, err := c.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s <%s> (%s)\n", client.SanitizeInput(user.Name), user.Email, user.Role)
	return nil
}

func runLogout(ctx context.Context, c *client.Client) error {
	// The local session is cleared even when the server rejects the call
	// (token already revoked or expired); only report unexpected failures.
	if err := c.Logout(ctx); err != nil {
		var apiErr *client.APIError
		if !errors.As(err, &apiErr) || apiErr.Status != 401 {
			return err
		}
	}
	fmt.Println("Logged out")
	return nil
}

func runMe(ctx context.Context, c *client.Client) error {
	user, err := c.Me(ctx)
	if err != nil {
		return err
	}

	caps := client.CapabilitiesFor(c.Session())
	fmt.Printf("Welcome, %s!\n\n", client.SanitizeInput(user.Name))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Role:\t%s\n", user.Role)
	fmt.Fprintf(w, "Email:\t%s\n", user.Email)
	if user.Phone != "" {
		fmt.Fprintf(w, "Phone:\t%s\n", user.Phone)
	}
	fmt.Fprintf(w, "Member since:\t%s\n", user.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(w, "Can manage users:\t%v\n", caps.ManageUsers)
	return w.Flush()
}

func runList(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	perPage := fs.Int("per-page", 10, "page size")
	search := fs.String("search", "", "substring filter on name/email/phone")
	_ = fs.Parse(args)

	result, err := c.Users(ctx, *page, *perPage, *search)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tROLE\tCREATED")
	for _, u := range result.Data {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, client.SanitizeInput(u.Name), u.Email, u.Phone, u.Role,
			u.CreatedAt.Format("2006-01-02"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nPage %d of %d (%d total", result.CurrentPage, result.LastPage, result.Total)
	if result.From > 0 {
		fmt.Printf(", showing %d-%d", result.From, result.To)
	}
	fmt.Println(")")
	return nil
}

func runGet(ctx context.Context, c *client.Client, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}

	user, err := c.User(ctx, id)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%d\n", user.ID)
	fmt.Fprintf(w, "Name:\t%s\n", client.SanitizeInput(user.Name))
	fmt.Fprintf(w, "Email:\t%s\n", user.Email)
	fmt.Fprintf(w, "Phone:\t%s\n", user.Phone)
	fmt.Fprintf(w, "Role:\t%s\n", user.Role)
	fmt.Fprintf(w, "Created:\t%s\n", user.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Updated:\t%s\n", user.UpdatedAt.Format("2006-01-02 15:04"))
	return w.Flush()
}

func runCreate(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	data := formFlags(fs)
	_ = fs.Parse(args)
	if data.PasswordConfirmation == "" {
		data.PasswordConfirmation = data.Password
	}

	if errs := client.ValidateUserForm(*data, false); len(errs) > 0 {
		return fieldErrors(errs)
	}

	user, err := c.CreateUser(ctx, *data)
	if err != nil {
		return err
	}
	fmt.Printf("Created user %d (%s)\n", user.ID, user.Email)
	return nil
}

func runUpdate(ctx context.Context, c *client.Client, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: userctl update <id> [flags]")
	}
	id, err := idArg(args[:1])
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("update", flag.ExitOnError)
	data := formFlags(fs)
	_ = fs.Parse(args[1:])
	if data.PasswordConfirmation == "" {
		data.PasswordConfirmation = data.Password
	}

	if errs := client.ValidateUserForm(*data, true); len(errs) > 0 {
		return fieldErrors(errs)
	}

	user, err := c.UpdateUser(ctx, id, *data)
	if err != nil {
		return err
	}
	fmt.Printf("Updated user %d (%s)\n", user.ID, user.Email)
	return nil
}

func runDelete(ctx context.Context, c *client.Client, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	if err := c.DeleteUser(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted user %d\n", id)
	return nil
}

func runExport(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "", "output file (defaults to the server-suggested name)")
	_ = fs.Parse(args)

	filename, data, err := c.ExportCSV(ctx)
	if err != nil {
		return err
	}
	if *out != "" {
		filename = *out
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d bytes)\n", filename, len(data))
	return nil
}

// formFlags registers the create/edit form fields on fs and returns the
// struct they populate.
func formFlags(fs *flag.FlagSet) *client.UserFormData {
	data := &client.UserFormData{}
	fs.StringVar(&data.Name, "name", "", "full name")
	fs.StringVar(&data.Email, "email", "", "email address")
	fs.StringVar(&data.Password, "password", "", "password (blank keeps the current one on update)")
	fs.StringVar(&data.Phone, "phone", "", "phone number (optional)")
	fs.StringVar(&data.Role, "role", "user", "role: admin or user")
	fs.Func("confirm", "password confirmation (defaults to -password)", func(s string) error {
		data.PasswordConfirmation = s
		return nil
	})
	return data
}

func idArg(args []string) (int64, error) {
	if len(args) < 1 {
		return 0, errors.New("missing user id argument")
	}
	var id int64
	if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", args[0])
	}
	return id, nil
}

func fieldErrors(errs map[string]string) error {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msg := "invalid input:"
	for _, f := range fields {
		msg += fmt.Sprintf("\n  %s: %s", f, errs[f])
	}
	return errors.New(msg)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: userctl [-server URL] <command> [flags]

commands:
  register  create an account and log in
  login     authenticate and store the session
  logout    revoke the session (local state is always cleared)
  me        show the current user
  list      list users (-page, -per-page, -search)
  get       show a user by id
  create    create a user (admin only)
  update    update a user by id (admin only)
  delete    delete a user by id (admin only)
  export    download all users as CSV (admin only)`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "userctl:", err)
	os.Exit(1)
}
