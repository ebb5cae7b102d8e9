package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/story-catalog/storycat/internal/gateway"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in to the Story API",
	Long: `Log in to the Story API.

Prompts for the password and stores the resulting session token in the
local database. Authenticated commands (add, sync, notify) use this
session until you log out.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register <name> <email>",
	Short: "Create a Story API account",
	Long: `Create a Story API account.

Prompts for a password (minimum 8 characters) and registers the
account. Registration does not log you in; run 'storycat login'
afterwards.`,
	Args: cobra.ExactArgs(2),
	RunE: runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and discard the local session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := args[0]

	password, err := promptPassword("Password: ")
	if err != nil {
		return trackCLIError("login", err)
	}

	a, cleanup, err := setup()
	if err != nil {
		return trackCLIError("login", err)
	}
	defer cleanup()

	session, err := a.client.Login(cmd.Context(), gateway.Credentials{
		Email:    email,
		Password: password,
	})
	if err != nil {
		telemetryClient.TrackLogin(false)
		return trackCLIError("login", fmt.Errorf("login failed: %w", err))
	}

	if err := a.store.PutSession(session); err != nil {
		return trackCLIError("login", fmt.Errorf("save session: %w", err))
	}

	telemetryClient.TrackLogin(true)
	fmt.Printf("Logged in as %s.\n", session.Name)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	name, email := args[0], args[1]

	password, err := promptPassword("Password (min 8 characters): ")
	if err != nil {
		return trackCLIError("register", err)
	}
	if len(password) < 8 {
		return trackCLIError("register", fmt.Errorf("invalid password: must be at least 8 characters"))
	}

	a, cleanup, err := setup()
	if err != nil {
		return trackCLIError("register", err)
	}
	defer cleanup()

	if err := a.client.Register(cmd.Context(), gateway.Registration{
		Name:     name,
		Email:    email,
		Password: password,
	}); err != nil {
		return trackCLIError("register", fmt.Errorf("registration failed: %w", err))
	}

	fmt.Printf("Account created for %s. Log in with 'storycat login %s'.\n", name, email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, cleanup, err := setup()
	if err != nil {
		return trackCLIError("logout", err)
	}
	defer cleanup()

	session, err := a.store.GetSession()
	if err != nil {
		return trackCLIError("logout", fmt.Errorf("read session: %w", err))
	}
	if session == nil {
		fmt.Println("Not logged in.")
		return nil
	}

	if err := a.store.DeleteSession(); err != nil {
		return trackCLIError("logout", fmt.Errorf("delete session: %w", err))
	}

	fmt.Printf("Logged out %s.\n", session.Name)
	return nil
}

// promptPassword reads a password without echo when stdin is a
// terminal, falling back to a plain line read otherwise.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
