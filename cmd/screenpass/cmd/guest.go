package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var guestCmd = &cobra.Command{
	Use:   "guest",
	Short: "Create a guest session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.store.LoginAsGuest(cmd.Context()); err != nil {
			return err
		}
		id := a.store.Identity()
		if id.ExpiresAt != nil {
			fmt.Printf("Guest session created, expires %s.\n", id.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
		} else {
			fmt.Println("Guest session created.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(guestCmd)
}
