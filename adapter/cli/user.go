package cli

import (
	"fmt"

	"github.com/emZubair/Calendy/internal/app"
	identityCommands "github.com/emZubair/Calendy/internal/identity/application/commands"
	"github.com/emZubair/Calendy/pkg/config"
	"github.com/spf13/cobra"
)

var (
	userAddUsername  string
	userAddEmail     string
	userAddFirstName string
	userAddLastName  string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage registered users",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a user that can own meetings",
	RunE:  runUserAdd,
}

func init() {
	userAddCmd.Flags().StringVar(&userAddUsername, "username", "", "login name (required)")
	userAddCmd.Flags().StringVar(&userAddEmail, "email", "", "email address (required)")
	userAddCmd.Flags().StringVar(&userAddFirstName, "first-name", "", "first name")
	userAddCmd.Flags().StringVar(&userAddLastName, "last-name", "", "last name")
	_ = userAddCmd.MarkFlagRequired("username")
	_ = userAddCmd.MarkFlagRequired("email")

	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := buildLogger(cfg)
	SetLogger(log)

	container, err := app.NewContainer(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer container.Close()

	result, err := container.RegisterUser.Handle(ctx, identityCommands.RegisterUserCommand{
		Username:  userAddUsername,
		Email:     userAddEmail,
		FirstName: userAddFirstName,
		LastName:  userAddLastName,
	})
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	user := result.User
	fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s) with id %s\n",
		user.Username().String(), user.Email().String(), user.ID().String())
	return nil
}
