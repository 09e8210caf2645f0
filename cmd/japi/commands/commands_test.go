package commands_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/jsonapi-client/cmd/japi/commands"
	"github.com/fivetwenty-io/jsonapi-client/internal/constants"
	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapi"
)

func TestResourceCommands_Structure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		use   string
		cmd   func() *cobra.Command
		flags []string
	}{
		{use: "get TYPE ID", cmd: commands.NewGetCommand, flags: []string{"include"}},
		{use: "list TYPE", cmd: commands.NewListCommand, flags: []string{"id", "include", "filter", "sort", "fields"}},
		{use: "related TYPE ID RELATIONSHIP", cmd: commands.NewRelatedCommand, flags: []string{"type"}},
		{use: "create TYPE", cmd: commands.NewCreateCommand, flags: []string{"attr", "to-one", "to-many"}},
		{use: "update TYPE ID", cmd: commands.NewUpdateCommand, flags: []string{"attr", "to-one", "to-many"}},
		{use: "delete TYPE ID", cmd: commands.NewDeleteCommand, flags: []string{"force"}},
		{use: "login", cmd: commands.NewLoginCommand, flags: []string{"client-id", "client-secret", "token-url"}},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			t.Parallel()

			cmd := tt.cmd()
			assert.Equal(t, tt.use, cmd.Use)
			assert.NotEmpty(t, cmd.Short)
			assert.NotEmpty(t, cmd.Long)
			assert.NotNil(t, cmd.RunE)

			for _, flag := range tt.flags {
				assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %s", flag)
			}
		})
	}
}

func TestConfigCommand_Structure(t *testing.T) {
	t.Parallel()

	cmd := commands.NewConfigCommand()
	assert.Equal(t, "config", cmd.Use)

	for _, name := range []string{"show", "set", "unset", "clear"} {
		sub := findSubcommand(cmd, name)
		require.NotNil(t, sub, name)
		assert.NotNil(t, sub.RunE)
	}
}

// articleServer is a JSON:API server holding articles and people.
type articleServer struct {
	mutex    sync.Mutex
	server   *httptest.Server
	requests []string
	bodies   []string
	auth     []string
}

func newArticleServer(t *testing.T) *articleServer {
	t.Helper()

	s := &articleServer{}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.server.Close)

	return s
}

func (s *articleServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	body, _ := io.ReadAll(r.Body)

	target := r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	s.requests = append(s.requests, r.Method+" "+target)
	s.bodies = append(s.bodies, string(body))
	s.auth = append(s.auth, r.Header.Get("Authorization"))

	w.Header().Set("Content-Type", constants.MediaType)

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/articles/1":
		_, _ = w.Write([]byte(`{"data":{"type":"articles","id":"1","attributes":{"title":"Hello","views":3},` +
			`"relationships":{"author":{"data":{"type":"people","id":"9"},` +
			`"links":{"related":"` + s.server.URL + `/articles/1/author"}}}}}`))
	case r.Method == http.MethodGet && r.URL.Path == "/articles/1/author":
		_, _ = w.Write([]byte(`{"data":{"type":"people","id":"9","attributes":{"name":"Ada"}}}`))
	case r.Method == http.MethodGet && r.URL.Path == "/articles":
		_, _ = w.Write([]byte(`{"data":[` +
			`{"type":"articles","id":"1","attributes":{"title":"Hello"}},` +
			`{"type":"articles","id":"2","attributes":{"title":"World","views":7}}]}`))
	case r.Method == http.MethodPost && r.URL.Path == "/articles":
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"type":"articles","id":"3","attributes":{"title":"Created"}}}`))
	case r.Method == http.MethodPut && r.URL.Path == "/articles/1":
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodDelete && r.URL.Path == "/articles/1":
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"status":"404","title":"Not Found"}]}`))
	}
}

func (s *articleServer) authorizations() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return append([]string(nil), s.auth...)
}

func (s *articleServer) lastRequest() (string, string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	last := len(s.requests) - 1

	return s.requests[last], s.bodies[last]
}

//nolint:paralleltest // viper is global
func TestGetCommand(t *testing.T) {
	server := newArticleServer(t)
	setupViper(t, server.server.URL, constants.FormatJSON)

	out, err := runCommand(commands.NewGetCommand(), "articles", "1")
	require.NoError(t, err)

	var view commands.ResourceView
	require.NoError(t, json.Unmarshal([]byte(out), &view))

	assert.Equal(t, "articles", view.Type)
	assert.Equal(t, "1", view.ID)
	assert.Equal(t, "Hello", view.Attributes["title"])
	assert.InDelta(t, 3, view.Attributes["views"], 0)
	assert.Equal(t, "people/9", view.Relationships["author"])
}

//nolint:paralleltest // viper is global
func TestGetCommand_Verbose(t *testing.T) {
	server := newArticleServer(t)
	setupViper(t, server.server.URL, constants.FormatJSON)
	viper.Set("verbose", true)

	out, err := runCommand(commands.NewGetCommand(), "articles", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "[DEBUG] japi: HTTP Request")
	assert.Contains(t, out, "method=GET")
	assert.Contains(t, out, "url="+server.server.URL+"/articles/1")
	assert.Contains(t, out, "status_code=200")
}

//nolint:paralleltest // viper is global
func TestGetCommand_NotFound(t *testing.T) {
	server := newArticleServer(t)
	setupViper(t, server.server.URL, constants.FormatJSON)

	_, err := runCommand(commands.NewGetCommand(), "articles", "404")
	require.Error(t, err)
	assert.True(t, jsonapi.IsNotFound(err))
}

//nolint:paralleltest // viper is global
func TestGetCommand_RequiresEndpoint(t *testing.T) {
	setupViper(t, "", constants.FormatJSON)

	_, err := runCommand(commands.NewGetCommand(), "articles", "1")
	require.ErrorIs(t, err, commands.ErrEndpointRequired)
}

//nolint:paralleltest // viper is global
func TestListCommand(t *testing.T) {
	server := newArticleServer(t)
	setupViper(t, server.server.URL, constants.FormatYAML)

	out, err := runCommand(commands.NewListCommand(), "articles",
		"--filter", "tag=go,api", "--sort=-title", "--include", "author")
	require.NoError(t, err)

	request, _ := server.lastRequest()
	assert.Equal(t, "GET /articles?filter[tag]=go,api&include=author&sort=-title", request)

	var views []commands.ResourceView
	require.NoError(t, yaml.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "1", views[0].ID)
	assert.Equal(t, "World", views[1].Attributes["title"])
}

//nolint:paralleltest // viper is global
func TestListCommand_IDs(t *testing.T) {
	server := newArticleServer(t)
	setupViper(t, server.server.URL, constants.FormatJSON)

	_, err := runCommand(commands.NewListCommand(), "articles", "--id", "1,2")
	require.NoError(t, err)

	request, _ := server.lastRequest()
	assert.Equal(t, "GET /articles?filter[id]=1,2", request)

	_, err = runCommand(commands.NewListCommand(), "articles", "--id", "1")
	require.NoError(t, err)

	request, _ = server.lastRequest()
	assert.Equal(t, "GET /articles?filter[id]=1", request)
}

//nolint:paralleltest // viper is global
func TestListCommand_Table(t *testing.T) {
	server := newArticleServer(t)
	setupViper(t, server.server.URL, constants.FormatTable)

	out, err := runCommand(commands.NewListCommand(), "articles")
	require.NoError(t, err)

	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "World")
	assert.Contains(t, out, constants.NotAvailable)
}

//nolint:paralleltest // viper is global
func TestRelatedCommand(t *testing.T) {
	server := newArticleServer(t)
	setupViper(t, server.server.URL, constants.FormatJSON)

	out, err := runCommand(commands.NewRelatedCommand(), "articles", "1", "author")
	require.NoError(t, err)

	request, _ := server.lastRequest()
	assert.Equal(t, "GET /articles/1/author", request)

	var views []commands.ResourceView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "people", views[0].Type)
	assert.Equal(t, "Ada", views[0].Attributes["name"])
}

//nolint:paralleltest // viper is global
func TestCreateCommand(t *testing.T) {
	server := newArticleServer(t)
	setupViper(t, server.server.URL, constants.FormatJSON)

	out, err := runCommand(commands.NewCreateCommand(), "articles",
		"--attr", "title=Created", "--attr", "draft=true", "--to-one", "author=people:9")
	require.NoError(t, err)

	request, body := server.lastRequest()
	assert.Equal(t, "POST /articles", request)
	assert.JSONEq(t, `{"data":{"type":"articles","attributes":{"title":"Created","draft":true},`+
		`"relationships":{"author":{"data":{"type":"people","id":"9"}}}}}`, body)

	var view commands.ResourceView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "3", view.ID)
	assert.Equal(t, "Created", view.Attributes["title"])
}

//nolint:paralleltest // viper is global
func TestCreateCommand_InvalidAttribute(t *testing.T) {
	server := newArticleServer(t)
	setupViper(t, server.server.URL, constants.FormatJSON)

	_, err := runCommand(commands.NewCreateCommand(), "articles", "--attr", "title")
	require.ErrorIs(t, err, commands.ErrInvalidKeyValue)
}

//nolint:paralleltest // viper is global
func TestUpdateCommand(t *testing.T) {
	server := newArticleServer(t)
	setupViper(t, server.server.URL, constants.FormatJSON)

	_, err := runCommand(commands.NewUpdateCommand(), "articles", "1")
	require.ErrorIs(t, err, commands.ErrNothingToUpdate)

	out, err := runCommand(commands.NewUpdateCommand(), "articles", "1", "--attr", "title=Changed")
	require.NoError(t, err)

	request, body := server.lastRequest()
	assert.Equal(t, "PUT /articles/1", request)
	assert.JSONEq(t, `{"data":{"type":"articles","id":"1","attributes":{"title":"Changed"}}}`, body)

	var view commands.ResourceView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "Changed", view.Attributes["title"])
}

//nolint:paralleltest // viper is global
func TestDeleteCommand(t *testing.T) {
	server := newArticleServer(t)
	setupViper(t, server.server.URL, constants.FormatJSON)

	t.Run("asks for confirmation", func(t *testing.T) {
		cmd := commands.NewDeleteCommand()
		cmd.SetIn(strings.NewReader("n\n"))

		_, err := runCommand(cmd, "articles", "1")
		require.ErrorIs(t, err, commands.ErrDeleteNotConfirmed)
	})

	t.Run("deletes when confirmed", func(t *testing.T) {
		cmd := commands.NewDeleteCommand()
		cmd.SetIn(strings.NewReader("yes\n"))

		out, err := runCommand(cmd, "articles", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "Deleted articles 1")

		request, _ := server.lastRequest()
		assert.Equal(t, "DELETE /articles/1", request)
	})

	t.Run("reports server errors", func(t *testing.T) {
		_, err := runCommand(commands.NewDeleteCommand(), "articles", "2", "--force")
		require.Error(t, err)
		assert.True(t, jsonapi.IsNotFound(err))
	})
}

//nolint:paralleltest // viper is global
func TestConfigCommand_SetShowUnset(t *testing.T) {
	configFile := setupViper(t, "", constants.FormatJSON)

	_, err := runCommand(commands.NewConfigCommand(), "set", "endpoint", "https://api.example.com")
	require.NoError(t, err)

	_, err = runCommand(commands.NewConfigCommand(), "set", "token", "secret-token")
	require.NoError(t, err)

	_, err = runCommand(commands.NewConfigCommand(), "set", "colour", "blue")
	require.ErrorIs(t, err, commands.ErrUnknownConfigKey)

	info, err := os.Stat(configFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(constants.ConfigFilePerm), info.Mode().Perm())

	out, err := runCommand(commands.NewConfigCommand(), "show")
	require.NoError(t, err)

	var shown commands.Config
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "https://api.example.com", shown.Endpoint)
	assert.Equal(t, constants.MaskedSecret, shown.Token)

	_, err = runCommand(commands.NewConfigCommand(), "unset", "token")
	require.NoError(t, err)

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)

	var saved commands.Config
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Equal(t, "https://api.example.com", saved.Endpoint)
	assert.Empty(t, saved.Token)

	_, err = runCommand(commands.NewConfigCommand(), "clear")
	require.NoError(t, err)

	_, err = os.Stat(configFile)
	assert.True(t, os.IsNotExist(err))
}

//nolint:paralleltest // viper is global
func TestLoginCommand(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/token" {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok || user != "cli" || pass != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"fresh","token_type":"bearer","expires_in":3600}`))
	}))
	defer tokenServer.Close()

	configFile := setupViper(t, tokenServer.URL, constants.FormatJSON)

	_, err := runCommand(commands.NewLoginCommand(), "--client-secret", "s3cret")
	require.ErrorIs(t, err, commands.ErrClientIDRequired)

	_, err = runCommand(commands.NewLoginCommand(), "--client-id", "cli", "--client-secret", "wrong")
	require.Error(t, err)

	out, err := runCommand(commands.NewLoginCommand(), "--client-id", "cli", "--client-secret", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in")

	data, err := os.ReadFile(configFile)
	require.NoError(t, err)

	var saved commands.Config
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Equal(t, tokenServer.URL, saved.Endpoint)
	assert.Equal(t, "cli", saved.ClientID)
	assert.Equal(t, "s3cret", saved.ClientSecret)

	_, err = runCommand(commands.NewLogoutCommand())
	require.NoError(t, err)

	data, err = os.ReadFile(configFile)
	require.NoError(t, err)

	saved = commands.Config{}
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.Empty(t, saved.ClientID)
	assert.Empty(t, saved.ClientSecret)
	assert.Equal(t, tokenServer.URL, saved.Endpoint)
}

//nolint:paralleltest // viper is global
func TestVersionCommand(t *testing.T) {
	setupViper(t, "", constants.FormatJSON)

	out, err := runCommand(commands.NewVersionCommand("1.2.3", "abc", "today"))
	require.NoError(t, err)

	var info commands.VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, commands.VersionInfo{Version: "1.2.3", Commit: "abc", Built: "today"}, info)

	viper.Set("output", constants.FormatTable)

	out, err = runCommand(commands.NewVersionCommand("1.2.3", "abc", "today"))
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
}
