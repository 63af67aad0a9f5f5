package commands

import (
	"context"

	"github.com/jfrog/jfrog-client-go/utils/errorutils"
	"github.com/jfrog/jfrog-client-go/utils/log"
	"github.com/marvelution/bitbucket-build-status/services"
	"github.com/marvelution/bitbucket-build-status/services/bitbucket"
)

// VerifyBitbucketCommand checks that an access token can be obtained with the configured credentials.
type VerifyBitbucketCommand struct {
	ctx                    context.Context
	bitbucketConfiguration *BitbucketConfiguration
}

func NewVerifyBitbucketCommand() *VerifyBitbucketCommand {
	return &VerifyBitbucketCommand{ctx: context.Background()}
}

func (cmd *VerifyBitbucketCommand) SetContext(ctx context.Context) *VerifyBitbucketCommand {
	cmd.ctx = ctx
	return cmd
}

func (cmd *VerifyBitbucketCommand) SetBitbucketConfiguration(bitbucketConfiguration *BitbucketConfiguration) *VerifyBitbucketCommand {
	cmd.bitbucketConfiguration = bitbucketConfiguration
	return cmd
}

func (cmd *VerifyBitbucketCommand) Run() error {
	settings := cmd.bitbucketConfiguration.GetSettings()
	log.Info("Verifying the Bitbucket credentials of " + settings.Username + " against " + settings.GetAuthUrl())

	bitbucketService, err := services.NewBitbucketService(cmd.ctx, settings, false)
	if err != nil {
		return err
	}
	accessToken, err := bitbucketService.GetAccessToken()
	if err != nil {
		return err
	}
	if accessToken == "" {
		return errorutils.CheckError(bitbucket.ErrMissingToken)
	}
	log.Info("Successfully obtained an access token from Bitbucket.")
	return nil
}
