//go:build integration

package integration

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	Endpoint     string
	Token        string
	ClientID     string
	ClientSecret string
	ResourceType string
	Attribute    string
	JapiPath     string
	Verbose      bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	config := &TestConfig{
		Endpoint:     os.Getenv("JAPI_INTEGRATION_ENDPOINT"),
		Token:        os.Getenv("JAPI_INTEGRATION_TOKEN"),
		ClientID:     os.Getenv("JAPI_INTEGRATION_CLIENT_ID"),
		ClientSecret: os.Getenv("JAPI_INTEGRATION_CLIENT_SECRET"),
		ResourceType: os.Getenv("JAPI_INTEGRATION_TYPE"),
		Attribute:    os.Getenv("JAPI_INTEGRATION_ATTRIBUTE"),
		JapiPath:     getJapiPath(),
		Verbose:      os.Getenv("JAPI_VERBOSE") == "true",
	}

	if config.ResourceType == "" {
		config.ResourceType = "articles"
	}

	if config.Attribute == "" {
		config.Attribute = "title"
	}

	return config
}

// getJapiPath determines the path to the japi binary.
func getJapiPath() string {
	if path := os.Getenv("JAPI_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../japi", "./japi", "../japi"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "japi"
}

// runJapi executes the japi binary against the configured endpoint and
// returns stdout, stderr and the error.
func runJapi(config *TestConfig, input string, args ...string) (string, string, error) {
	args = append([]string{"--endpoint", config.Endpoint, "--output", "json"}, args...)
	if config.Token != "" {
		args = append(args, "--token", config.Token)
	}

	if config.Verbose {
		args = append(args, "--verbose")
	}

	// #nosec G204
	cmd := exec.Command(config.JapiPath, args...)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Stdin = strings.NewReader(input)
	cmd.Env = append(os.Environ(),
		"JAPI_CLIENT_ID="+config.ClientID,
		"JAPI_CLIENT_SECRET="+config.ClientSecret,
	)

	err := cmd.Run()

	return stdout.String(), stderr.String(), err
}
