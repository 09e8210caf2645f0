package commands

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapi"
	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapiclient"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		clientID     string
		clientSecret string
		tokenURL     string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with client credentials",
		Long:  "Verify OAuth2 client credentials against the token endpoint and save them",
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := viper.GetString("endpoint")
			if endpoint == "" {
				return ErrEndpointRequired
			}

			if clientID == "" {
				return ErrClientIDRequired
			}

			if clientSecret == "" && term.IsTerminal(int(os.Stdin.Fd())) {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "Client secret: ")

				secret, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read client secret: %w", err)
				}

				_, _ = fmt.Fprintln(cmd.OutOrStdout())
				clientSecret = string(secret)
			}

			config := &jsonapi.Config{
				Endpoint:           endpoint,
				ClientID:           clientID,
				ClientSecret:       clientSecret,
				TokenURL:           tokenURL,
				AuthenticateOnInit: true,
			}

			_, err := jsonapiclient.New(cmd.Context(), config)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			saved, err := loadConfig()
			if err != nil {
				return err
			}

			saved.Endpoint = jsonapiclient.NormalizeEndpoint(endpoint)
			saved.Token = ""
			saved.ClientID = clientID
			saved.ClientSecret = clientSecret
			saved.TokenURL = tokenURL
			saved.clearOAuthToken()

			err = saveConfig(saved)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in to %s as %s\n", saved.Endpoint, clientID)

			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 client ID")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth2 client secret (prompted when omitted)")
	cmd.Flags().StringVar(&tokenURL, "token-url", "", "OAuth2 token endpoint (default is ENDPOINT/oauth/token)")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove saved credentials",
		Long:  "Remove the token and client credentials from the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			config.Token = ""
			config.ClientID = ""
			config.ClientSecret = ""
			config.TokenURL = ""
			config.clearOAuthToken()

			err = saveConfig(config)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")

			return nil
		},
	}
}
