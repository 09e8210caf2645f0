//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapi"
	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapiclient"
)

// ClientIntegrationTestSuite runs a resource lifecycle against a live
// JSON:API server.
type ClientIntegrationTestSuite struct {
	suite.Suite

	config *TestConfig
	client jsonapi.Client
	ctx    context.Context
	cancel context.CancelFunc
}

// SetupSuite initializes the test environment.
func (suite *ClientIntegrationTestSuite) SetupSuite() {
	suite.config = LoadTestConfig()

	if suite.config.Endpoint == "" {
		suite.T().Skip("JAPI_INTEGRATION_ENDPOINT environment variable not set, skipping integration tests")
	}

	suite.ctx, suite.cancel = context.WithTimeout(context.Background(), 2*time.Minute)

	client, err := jsonapiclient.New(suite.ctx, &jsonapi.Config{
		Endpoint:     suite.config.Endpoint,
		AccessToken:  suite.config.Token,
		ClientID:     suite.config.ClientID,
		ClientSecret: suite.config.ClientSecret,
	})
	suite.Require().NoError(err)

	suite.client = client
}

// TearDownSuite releases the suite context.
func (suite *ClientIntegrationTestSuite) TearDownSuite() {
	if suite.cancel != nil {
		suite.cancel()
	}
}

func (suite *ClientIntegrationTestSuite) TestResourceLifecycle() {
	name := fmt.Sprintf("integration-%d", time.Now().UnixNano())

	draft := jsonapi.NewGeneric(suite.config.ResourceType)
	draft.Attributes[suite.config.Attribute] = name

	saved, err := suite.client.Save(suite.ctx, draft)
	suite.Require().NoError(err)
	suite.Same(draft, saved)
	suite.NotEmpty(draft.ID)

	fetched, err := suite.client.FetchByTypeAndID(suite.ctx, suite.config.ResourceType, draft.ID)
	suite.Require().NoError(err)
	suite.Equal(name, fetched.(*jsonapi.Generic).Attributes[suite.config.Attribute])

	renamed := name + "-renamed"
	draft.Attributes[suite.config.Attribute] = renamed

	_, err = suite.client.Save(suite.ctx, draft)
	suite.Require().NoError(err)

	listed, err := suite.client.FetchForQuery(suite.ctx,
		jsonapi.NewQuery(suite.config.ResourceType).WithFilter("id", draft.ID))
	suite.Require().NoError(err)
	suite.NotEmpty(listed)

	suite.Require().NoError(suite.client.Delete(suite.ctx, draft))

	_, err = suite.client.FetchByTypeAndID(suite.ctx, suite.config.ResourceType, draft.ID)
	suite.True(jsonapi.IsNotFound(err), "expected not found, got %v", err)
}

func (suite *ClientIntegrationTestSuite) TestAsyncFetch() {
	future := suite.client.FetchForQueryAsync(suite.ctx, jsonapi.NewQuery(suite.config.ResourceType))

	_, err := future.Await(suite.ctx)
	suite.NoError(err)
}

func (suite *ClientIntegrationTestSuite) TestCLIWorkflow() {
	if _, err := os.Stat(suite.config.JapiPath); err != nil {
		suite.T().Skipf("japi binary not found at %s", suite.config.JapiPath)
	}

	name := fmt.Sprintf("cli-%d", time.Now().UnixNano())

	stdout, stderr, err := runJapi(suite.config, "", "create", suite.config.ResourceType,
		"--attr", suite.config.Attribute+"="+name)
	suite.Require().NoError(err, "create failed: %s", stderr)

	var created struct {
		ID string `json:"id"`
	}

	suite.Require().NoError(json.Unmarshal([]byte(stdout), &created))
	suite.NotEmpty(created.ID)

	stdout, stderr, err = runJapi(suite.config, "", "get", suite.config.ResourceType, created.ID)
	suite.Require().NoError(err, "get failed: %s", stderr)
	suite.Contains(stdout, name)

	_, stderr, err = runJapi(suite.config, "y\n", "delete", suite.config.ResourceType, created.ID)
	suite.Require().NoError(err, "delete failed: %s", stderr)
}

func TestClientIntegration(t *testing.T) {
	suite.Run(t, new(ClientIntegrationTestSuite))
}
