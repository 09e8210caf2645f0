package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/jsonapi-client/internal/constants"
)

// Config represents the CLI configuration file.
type Config struct {
	Endpoint     string `json:"endpoint,omitempty"      yaml:"endpoint,omitempty"`
	Token        string `json:"token,omitempty"         yaml:"token,omitempty"`
	ClientID     string `json:"client_id,omitempty"     yaml:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
	TokenURL     string `json:"token_url,omitempty"     yaml:"token_url,omitempty"`
	Output       string `json:"output,omitempty"        yaml:"output,omitempty"`

	// OAuthToken caches the last token obtained with the client credentials.
	OAuthToken          string     `json:"oauth_token,omitempty"            yaml:"oauth_token,omitempty"`
	OAuthTokenExpiresAt *time.Time `json:"oauth_token_expires_at,omitempty" yaml:"oauth_token_expires_at,omitempty"`
	LastRefreshed       *time.Time `json:"last_refreshed,omitempty"         yaml:"last_refreshed,omitempty"`
}

// clearOAuthToken drops the cached token, which belongs to the credentials
// and endpoint it was obtained with.
func (c *Config) clearOAuthToken() {
	c.OAuthToken = ""
	c.OAuthTokenExpiresAt = nil
	c.LastRefreshed = nil
}

// credentialKeys invalidate the cached OAuth token when changed.
var credentialKeys = map[string]bool{
	"endpoint":      true,
	"client_id":     true,
	"client_secret": true,
	"token_url":     true,
}

// configFields maps configuration keys to their fields.
func configFields(config *Config) map[string]*string {
	return map[string]*string{
		"endpoint":      &config.Endpoint,
		"token":         &config.Token,
		"client_id":     &config.ClientID,
		"client_secret": &config.ClientSecret,
		"token_url":     &config.TokenURL,
		"output":        &config.Output,
	}
}

// masked returns a copy of config with its secrets hidden.
func (c Config) masked() Config {
	if c.Token != "" {
		c.Token = constants.MaskedSecret
	}

	if c.ClientSecret != "" {
		c.ClientSecret = constants.MaskedSecret
	}

	if c.OAuthToken != "" {
		c.OAuthToken = constants.MaskedSecret
	}

	return c
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage the endpoint, credentials and output settings of the CLI",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			display := config.masked()

			if done, err := encode(cmd.OutOrStdout(), display); done {
				return err
			}

			return displayConfigTable(cmd.OutOrStdout(), &display)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set one of endpoint, token, client_id, client_secret, token_url or output",
		Args:  cobra.ExactArgs(keyValueParts),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(cmd.OutOrStdout(), args[0], "")
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear configuration",
		Long:  "Remove the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := configFilePath()
			if err != nil {
				return err
			}

			err = os.Remove(configFile)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Configuration cleared")

			return nil
		},
	}
}

func updateConfig(out io.Writer, key, value string) error {
	config, err := loadConfig()
	if err != nil {
		return err
	}

	field, ok := configFields(config)[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}

	*field = value

	if credentialKeys[key] {
		config.clearOAuthToken()
	}

	err = saveConfig(config)
	if err != nil {
		return err
	}

	viper.Set(key, value)

	if value == "" {
		_, _ = fmt.Fprintf(out, "Unset %s\n", key)
	} else {
		_, _ = fmt.Fprintf(out, "Set %s\n", key)
	}

	return nil
}

// configFilePath returns the file in use, or ~/.japi/config.yml.
func configFilePath() (string, error) {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".japi", "config.yml"), nil
}

// loadConfig reads the configuration file. A missing file is an empty
// configuration.
func loadConfig() (*Config, error) {
	configFile, err := configFilePath()
	if err != nil {
		return nil, err
	}

	config := &Config{}

	// configFile comes from the --config flag or the user home directory.
	// #nosec G304
	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return config, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func saveConfig(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return constants.NotAvailable
	}

	return t.Format(time.RFC3339)
}

func displayConfigTable(out io.Writer, config *Config) error {
	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")
	_ = table.Append("Endpoint", formatValue(config.Endpoint))
	_ = table.Append("Token", formatValue(config.Token))
	_ = table.Append("Client ID", formatValue(config.ClientID))
	_ = table.Append("Client Secret", formatValue(config.ClientSecret))
	_ = table.Append("Token URL", formatValue(config.TokenURL))
	_ = table.Append("Output", formatValue(config.Output))
	_ = table.Append("OAuth Token", formatValue(config.OAuthToken))
	_ = table.Append("OAuth Token Expires", formatTime(config.OAuthTokenExpiresAt))

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
