package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jfrog/jfrog-client-go/artifactory/services/utils"
	"github.com/jfrog/jfrog-client-go/auth"
	clientConfig "github.com/jfrog/jfrog-client-go/config"
	"github.com/jfrog/jfrog-client-go/http/jfroghttpclient"
	"github.com/jfrog/jfrog-client-go/utils/errorutils"
	"github.com/jfrog/jfrog-client-go/utils/io/httputils"
	"github.com/jfrog/jfrog-client-go/utils/log"
	"github.com/marvelution/bitbucket-build-status/services/bitbucket"
)

type BitbucketService struct {
	client  *jfroghttpclient.JfrogHttpClient
	authUrl string
	dryRun  bool
	auth.ServiceDetails
}

func NewBitbucketService(ctx context.Context, settings bitbucket.Settings, dryRun bool) (*BitbucketService, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	details := NewBitbucketDetails(settings)
	// Bitbucket is called exactly once per notification, failures are reported to the caller.
	config, err := clientConfig.NewConfigBuilder().
		SetServiceDetails(details).
		SetContext(ctx).
		SetHttpRetries(0).
		SetDryRun(dryRun).
		Build()
	if err != nil {
		return nil, err
	}

	client, err := jfroghttpclient.JfrogClientBuilder().
		SetTimeout(config.GetHttpTimeout()).
		SetRetries(config.GetHttpRetries()).
		SetRetryWaitMilliSecs(config.GetHttpRetryWaitMilliSecs()).
		SetHttpClient(config.GetHttpClient()).
		SetContext(config.GetContext()).
		Build()
	if err != nil {
		return nil, err
	}
	return &BitbucketService{client: client, authUrl: settings.GetAuthUrl(), dryRun: dryRun, ServiceDetails: details}, nil
}

func (bs *BitbucketService) IsDryRun() bool {
	return bs.dryRun
}

// GetAccessToken exchanges the configured username and password for a bearer token using the
// OAuth2 client-credentials grant. The credentials are sent up front using basic authentication.
func (bs *BitbucketService) GetAccessToken() (string, error) {
	content := []byte(url.Values{"grant_type": {"client_credentials"}}.Encode())

	clientDetails := httputils.HttpClientDetails{
		User:     bs.GetUser(),
		Password: bs.GetPassword(),
		Headers:  map[string]string{},
	}
	utils.SetContentType("application/x-www-form-urlencoded", &clientDetails.Headers)

	log.Debug("Requesting an access token from " + bs.authUrl)
	resp, body, err := bs.client.SendPost(bs.authUrl, content, &clientDetails)
	if err = checkResponse(bitbucket.ErrAuthentication, bs.authUrl, resp, body, err); err != nil {
		return "", err
	}

	response := &bitbucket.AccessTokenResponse{}
	if err := json.Unmarshal(body, response); err != nil {
		return "", errorutils.CheckError(fmt.Errorf("%w: unable to read access token response: %s", bitbucket.ErrAuthentication, err.Error()))
	}
	return response.AccessToken, nil
}

func (bs *BitbucketService) CommitStatusUrl(repository bitbucket.Repository, revision string) string {
	return bs.GetUrl() + "2.0/repositories/" + repository.FullName() + "/commit/" + revision + "/statuses/build"
}

func (bs *BitbucketService) SendCommitStatus(accessToken string, repository bitbucket.Repository, revision string,
	message bitbucket.CreateCommitStatus) error {
	content, err := json.Marshal(message)
	if err != nil {
		return err
	}

	clientDetails := httputils.HttpClientDetails{
		AccessToken: accessToken,
		Headers:     map[string]string{},
	}
	utils.SetContentType("application/json", &clientDetails.Headers)

	statusUrl := bs.CommitStatusUrl(repository, revision)
	if bs.dryRun {
		log.Info("Dry-running request to Bitbucket ("+statusUrl+"):", string(content))
		return nil
	}
	log.Debug("Sending commit status to Bitbucket using request ("+statusUrl+"):", string(content))
	resp, body, err := bs.client.SendPost(statusUrl, content, &clientDetails)
	if err = checkResponse(bitbucket.ErrTransport, statusUrl, resp, body, err); err != nil {
		return err
	}
	log.Debug(fmt.Sprintf("Response from Bitbucket: %s.\n%s\n", resp.Status, body))
	return nil
}

// checkResponse treats every status above 204 as a failure of the given kind.
// The response is inspected before the transport error since the client may report
// both for server errors.
func checkResponse(kind error, requestUrl string, resp *http.Response, body []byte, err error) error {
	if resp != nil && resp.StatusCode > http.StatusNoContent {
		return errorutils.CheckError(bitbucket.NewResponseError(kind, requestUrl, resp.StatusCode, resp.Status, body))
	}
	if err != nil {
		return errorutils.CheckError(fmt.Errorf("%w: %s", bitbucket.ErrTransport, err.Error()))
	}
	if resp == nil {
		return errorutils.CheckErrorf("%s: received empty response from %s", bitbucket.ErrTransport.Error(), requestUrl)
	}
	return nil
}
