package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/screenpass/screenpass/auth"
	"github.com/screenpass/screenpass/relay"
)

var (
	loginUsername string
	loginPassword string
	loginListen   string
	loginTimeout  time.Duration
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to TMDB",
	Long: `Log in with --username (password prompted if not given via --password),
or without flags to approve the request in your browser: screenpass serves a
loopback callback and waits for TMDB to redirect back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginUsername != "" {
			return loginWithPassword(cmd.Context())
		}
		return loginViaBrowser(cmd.Context())
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "TMDB username (not email)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "TMDB password (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginListen, "listen", "127.0.0.1:0", "loopback address for the browser callback")
	loginCmd.Flags().DurationVar(&loginTimeout, "timeout", 5*time.Minute, "how long to wait for the browser approval")
	rootCmd.AddCommand(loginCmd)
}

func loginWithPassword(ctx context.Context) error {
	password := loginPassword
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.LoginWithCredentials(ctx, loginUsername, password); err != nil {
		return err
	}
	fmt.Println("Logged in.")
	return nil
}

func loginViaBrowser(ctx context.Context) error {
	srv, err := relay.NewServer(loginListen)
	if err != nil {
		return err
	}
	srv.Start()
	defer srv.Shutdown(context.Background())

	a, err := newApp(auth.WithRedirectURL(srv.RedirectURL()))
	if err != nil {
		return err
	}
	defer a.close()

	authURL, err := a.svc.AuthorizationURL(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Open this URL in your browser to approve the request:\n\n  %s\n\n", authURL)

	waitCtx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()
	callback, err := srv.Wait(waitCtx)
	if err != nil {
		return fmt.Errorf("waiting for browser approval: %w", err)
	}

	if err := a.store.HandleCallback(ctx, callback); err != nil {
		return err
	}
	fmt.Println("Logged in.")
	return nil
}
