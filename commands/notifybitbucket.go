package commands

import (
	"context"
	"fmt"

	"github.com/jfrog/jfrog-cli-core/v2/artifactory/utils"
	"github.com/jfrog/jfrog-client-go/utils/errorutils"
	"github.com/jfrog/jfrog-client-go/utils/log"
	"github.com/marvelution/bitbucket-build-status/services"
	"github.com/marvelution/bitbucket-build-status/services/bitbucket"
)

type NotifyBitbucketCommand struct {
	ctx                    context.Context
	buildConfiguration     *utils.BuildConfiguration
	bitbucketConfiguration *BitbucketConfiguration
	notification           bitbucket.Notification
	runId                  string
	includePrePostRunSteps bool
}

func NewNotifyBitbucketCommand() *NotifyBitbucketCommand {
	return &NotifyBitbucketCommand{ctx: context.Background()}
}

func (cmd *NotifyBitbucketCommand) SetContext(ctx context.Context) *NotifyBitbucketCommand {
	cmd.ctx = ctx
	return cmd
}

func (cmd *NotifyBitbucketCommand) SetBuildConfiguration(buildConfiguration *utils.BuildConfiguration) *NotifyBitbucketCommand {
	cmd.buildConfiguration = buildConfiguration
	return cmd
}

func (cmd *NotifyBitbucketCommand) SetBitbucketConfiguration(bitbucketConfiguration *BitbucketConfiguration) *NotifyBitbucketCommand {
	cmd.bitbucketConfiguration = bitbucketConfiguration
	return cmd
}

func (cmd *NotifyBitbucketCommand) SetNotification(notification bitbucket.Notification) *NotifyBitbucketCommand {
	cmd.notification = notification
	return cmd
}

// SetRunId sets the Pipelines run to read the result from when none is given.
func (cmd *NotifyBitbucketCommand) SetRunId(runId string) *NotifyBitbucketCommand {
	cmd.runId = runId
	return cmd
}

func (cmd *NotifyBitbucketCommand) SetIncludePrePostRunSteps(includePrePostRunSteps bool) *NotifyBitbucketCommand {
	cmd.includePrePostRunSteps = includePrePostRunSteps
	return cmd
}

func (cmd *NotifyBitbucketCommand) Run() error {
	log.Info("Sending build status to Bitbucket.")

	notification, err := cmd.completeNotification(cmd.notification)
	if err != nil {
		return err
	}
	if notification.Result, err = cmd.resolveResult(notification.Result); err != nil {
		return err
	}
	if err := validateNotification(notification); err != nil {
		return err
	}
	repository, err := bitbucket.ParseRepositoryName(notification.RepositoryUrl)
	if err != nil {
		return errorutils.CheckError(err)
	}
	message := notification.CommitStatus()

	bitbucketService, err := services.NewBitbucketService(cmd.ctx, cmd.bitbucketConfiguration.GetSettings(),
		cmd.bitbucketConfiguration.dryRun)
	if err != nil {
		return err
	}

	var accessToken string
	if !bitbucketService.IsDryRun() {
		accessToken, err = bitbucketService.GetAccessToken()
		if err != nil {
			return err
		}
		if accessToken == "" {
			if cmd.bitbucketConfiguration.failOnMissingToken {
				return errorutils.CheckError(bitbucket.ErrMissingToken)
			}
			log.Error("It is not possible to get an access token, the build status of " + repository.FullName() +
				"@" + notification.Revision + " is not sent.")
			return nil
		}
	}

	if err := bitbucketService.SendCommitStatus(accessToken, repository, notification.Revision, message); err != nil {
		return err
	}
	if !bitbucketService.IsDryRun() {
		log.Info(fmt.Sprintf("Build status %s of %s was sent to %s@%s", message.State, message.Key, repository.FullName(),
			notification.Revision))
	}
	return nil
}

// completeNotification fills in the missing vcs details from the published build-info, if a build is configured.
func (cmd *NotifyBitbucketCommand) completeNotification(notification bitbucket.Notification) (bitbucket.Notification, error) {
	if cmd.buildConfiguration == nil {
		return notification, nil
	}
	buildName, err := cmd.buildConfiguration.GetBuildName()
	if err != nil || buildName == "" {
		return notification, nil
	}
	if notification.PipelineStage == "" {
		notification.PipelineStage = buildName
	}
	if notification.RepositoryUrl != "" && notification.Revision != "" && notification.Branch != "" &&
		notification.TrackbackUrl != "" {
		return notification, nil
	}

	serverDetails, err := cmd.bitbucketConfiguration.GetServerDetails()
	if err != nil {
		return notification, err
	}
	buildInfo, err := getBuildInfo(cmd.buildConfiguration, serverDetails)
	if err != nil {
		return notification, err
	}
	return applyBuildInfo(notification, buildInfo), nil
}

// resolveResult reads the result from the Pipelines run when no result was given.
func (cmd *NotifyBitbucketCommand) resolveResult(result string) (string, error) {
	if result != "" || cmd.runId == "" {
		return result, nil
	}
	serverDetails, err := cmd.bitbucketConfiguration.GetServerDetails()
	if err != nil {
		return "", err
	}
	pipelinesService, err := services.NewPipelinesService(*serverDetails)
	if err != nil {
		return "", err
	}
	state, err := pipelinesService.GetRunState(cmd.runId, cmd.includePrePostRunSteps)
	if err != nil {
		return "", err
	}
	return state.Result(), nil
}

func validateNotification(notification bitbucket.Notification) error {
	var missing string
	switch {
	case notification.RepositoryUrl == "":
		missing = "repository url"
	case notification.Revision == "":
		missing = "revision"
	case notification.PipelineStage == "":
		missing = "pipeline stage"
	default:
		return nil
	}
	return errorutils.CheckError(fmt.Errorf("%w: a %s is required", bitbucket.ErrMalformedInput, missing))
}
