package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/screenpass/screenpass/auth"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		id := a.store.Identity()
		switch id.Kind {
		case auth.KindLoggedIn:
			fmt.Println("Logged in.")
		case auth.KindGuest:
			if id.ExpiresAt != nil {
				fmt.Printf("Guest session, expires %s.\n", id.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
			} else {
				fmt.Println("Guest session.")
			}
		default:
			fmt.Println("Not logged in.")
		}
		fmt.Printf("Authenticated: %v\n", a.store.IsAuthenticated())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
