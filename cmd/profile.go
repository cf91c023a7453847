package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/codiz/internal/profile"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the learner profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := profile.Load(cmd.Context(), st.KV())
		if err != nil {
			return err
		}
		email := p.Email
		if email == "" {
			email = "(not set)"
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Email:    %s\n", email)
		if p.Name != "" {
			fmt.Fprintf(out, "Name:     %s\n", p.Name)
		}
		fmt.Fprintf(out, "Greeting: %s\n", p.DisplayName())
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the learner email or name",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		p, err := profile.Load(ctx, st.KV())
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("email") {
			p.Email, _ = cmd.Flags().GetString("email")
		}
		if cmd.Flags().Changed("name") {
			p.Name, _ = cmd.Flags().GetString("name")
		}
		if err := profile.Save(ctx, st.KV(), p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved. Greeting: %s\n", p.DisplayName())
		return nil
	},
}

func init() {
	profileSetCmd.Flags().String("email", "", "Learner email")
	profileSetCmd.Flags().String("name", "", "Learner full name")
	profileCmd.AddCommand(profileSetCmd)
}
