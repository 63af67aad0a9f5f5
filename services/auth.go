package services

import (
	"github.com/jfrog/jfrog-client-go/auth"
	clientutils "github.com/jfrog/jfrog-client-go/utils"
	"github.com/marvelution/bitbucket-build-status/services/bitbucket"
)

func NewBitbucketDetails(settings bitbucket.Settings) auth.ServiceDetails {
	details := &bitbucketDetails{}
	details.SetUrl(clientutils.AddTrailingSlashIfNeeded(settings.Endpoint))
	details.SetUser(settings.Username)
	details.SetPassword(settings.Password)
	return details
}

type bitbucketDetails struct {
	auth.CommonConfigFields
}

func (bs *bitbucketDetails) GetVersion() (string, error) {
	return "Cloud", nil
}
