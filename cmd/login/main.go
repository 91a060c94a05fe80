// Command login performs the interactive back-office login (including MFA
// when the account requires it) and seeds the durable session store that
// the daemon and the other tools read.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jsalmela/apteekki-admin/internal/api"
	"github.com/jsalmela/apteekki-admin/internal/config"
	"github.com/jsalmela/apteekki-admin/internal/session"
	"github.com/lithammer/dedent"
	"golang.org/x/term"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(dedent.Dedent(`
		=== Apteekki back-office login ===

		Signs in against the back-office API and stores the token pair
		(encrypted) so the daemon can keep the session alive.
	`))
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read password: %v\n", err)
		os.Exit(1)
	}

	client := api.NewClient(api.ClientOpts{BaseURL: cfg.APIBaseURL})
	ctx := context.Background()

	resp, err := client.Login(ctx, email, string(passwordBytes))
	if err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}

	if resp.RequiresMFA {
		fmt.Print("MFA code: ")
		code, _ := reader.ReadString('\n')
		code = strings.TrimSpace(code)

		resp, err = client.VerifyMFA(ctx, resp.MFAToken, code)
		if err != nil {
			fmt.Fprintf(os.Stderr, "MFA verification failed: %v\n", err)
			os.Exit(1)
		}
	}

	pair := session.TokenPair{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if !pair.Valid() {
		fmt.Fprintln(os.Stderr, "backend returned an incomplete token pair")
		os.Exit(1)
	}

	key, err := session.DeriveKey(cfg.TokenKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to derive encryption key: %v\n", err)
		os.Exit(1)
	}

	store, err := session.NewSQLiteStore(cfg.DBPath, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open session store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Save(pair, resp.User); err != nil {
		fmt.Fprintf(os.Stderr, "failed to save session: %v\n", err)
		os.Exit(1)
	}

	name := email
	if resp.User != nil {
		name = resp.User.Name
	}
	fmt.Printf("\nLogged in as %s. Session saved to %s.\n", name, cfg.DBPath)
}
