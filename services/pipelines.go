package services

import (
	"encoding/json"
	"fmt"
	"net/http"

	utilsconfig "github.com/jfrog/jfrog-cli-core/v2/utils/config"
	"github.com/jfrog/jfrog-client-go/artifactory/services/utils"
	"github.com/jfrog/jfrog-client-go/auth"
	clientConfig "github.com/jfrog/jfrog-client-go/config"
	"github.com/jfrog/jfrog-client-go/http/jfroghttpclient"
	"github.com/jfrog/jfrog-client-go/utils/errorutils"
	"github.com/jfrog/jfrog-client-go/utils/log"
	"github.com/marvelution/bitbucket-build-status/services/common"
)

// Step type codes of the pre and post run steps that Pipelines adds to every run.
const (
	preRunStepTypeCode  = 2046
	postRunStepTypeCode = 2047
)

type PipelinesService struct {
	client *jfroghttpclient.JfrogHttpClient
	auth.ServiceDetails
}

func NewPipelinesService(serverDetails utilsconfig.ServerDetails) (*PipelinesService, error) {
	pAuth, err := serverDetails.CreatePipelinesAuthConfig()
	if err != nil {
		return nil, err
	}
	config, err := clientConfig.NewConfigBuilder().
		SetServiceDetails(pAuth).
		SetDryRun(false).
		Build()
	if err != nil {
		return nil, err
	}

	client, err := jfroghttpclient.JfrogClientBuilder().
		SetCertificatesPath(config.GetCertificatesPath()).
		SetInsecureTls(config.IsInsecureTls()).
		SetClientCertPath(serverDetails.GetClientCertPath()).
		SetClientCertKeyPath(serverDetails.GetClientCertKeyPath()).
		AppendPreRequestInterceptor(config.GetServiceDetails().RunPreRequestFunctions).
		SetContext(config.GetContext()).
		SetRetries(config.GetHttpRetries()).
		SetRetryWaitMilliSecs(config.GetHttpRetryWaitMilliSecs()).
		Build()
	if err != nil {
		return nil, err
	}

	return &PipelinesService{
		client:         client,
		ServiceDetails: pAuth,
	}, nil
}

// GetRunState returns the worst state of the steps of a run.
func (ps *PipelinesService) GetRunState(runId string, includePrePostRunSteps bool) (common.State, error) {
	steps := &[]Step{}
	if err := ps.GetRequest("api/v1/steps?runIds="+runId, steps); err != nil {
		return common.Unknown, err
	}
	state := RunState(*steps, includePrePostRunSteps)
	log.Debug(fmt.Sprintf("Run %s of Pipelines has %d steps and state %s", runId, len(*steps), state))
	return state, nil
}

func (ps *PipelinesService) GetRequest(url string, response any) error {
	clientDetails := ps.CreateHttpClientDetails()
	utils.SetContentType("application/json", &clientDetails.Headers)
	fullUrl := ps.GetUrl() + url
	resp, body, _, err := ps.client.SendGet(fullUrl, false, &clientDetails)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusOK {
		return json.Unmarshal(body, response)
	} else {
		return errorutils.CheckErrorf(fmt.Sprintf("Response from Pipelines (%s): %s.\n%s\n", fullUrl, resp.Status, body))
	}
}

func RunState(steps []Step, includePrePostRunSteps bool) common.State {
	if len(steps) == 0 {
		return common.Unknown
	}
	state := common.Successful
	for _, step := range steps {
		if (step.TypeCode != preRunStepTypeCode && step.TypeCode != postRunStepTypeCode) || includePrePostRunSteps {
			stepState := common.GetState(step.StatusCode)
			if stepState.IsWorseThan(state) {
				state = stepState
			}
		}
	}
	return state
}

type Step struct {
	Id         int64  `json:"id"`
	PipelineId int64  `json:"pipelineId"`
	RunId      int64  `json:"runId"`
	StatusCode int64  `json:"statusCode"`
	TypeCode   int    `json:"typeCode"`
	Name       string `json:"name"`
}
