package commands

import (
	buildinfo "github.com/jfrog/build-info-go/entities"
	"github.com/jfrog/jfrog-cli-core/v2/artifactory/utils"
	utilsconfig "github.com/jfrog/jfrog-cli-core/v2/utils/config"
	artservices "github.com/jfrog/jfrog-client-go/artifactory/services"
	"github.com/jfrog/jfrog-client-go/utils/log"
	"github.com/marvelution/bitbucket-build-status/services/bitbucket"
	"github.com/marvelution/bitbucket-build-status/util"
)

// Returns build info, or empty build info struct if not found.
func getBuildInfo(buildConfig *utils.BuildConfiguration, serverDetails *utilsconfig.ServerDetails) (*buildinfo.BuildInfo, error) {
	// Create services manager to get build-info from Artifactory.
	sm, err := utils.CreateServiceManager(serverDetails, -1, 0, false)
	if err != nil {
		return nil, err
	}

	buildName, err := buildConfig.GetBuildName()
	if err != nil {
		return nil, err
	}
	buildNumber, err := buildConfig.GetBuildNumber()
	if err != nil {
		return nil, err
	}

	bis := artservices.NewBuildInfoService(sm.GetConfig().GetServiceDetails(), sm.Client())

	publishedBuildInfo, found, err := bis.GetBuildInfo(artservices.BuildInfoParams{
		BuildName:   buildName,
		BuildNumber: buildNumber,
		ProjectKey:  buildConfig.GetProject(),
	})
	if err != nil {
		return nil, err
	}
	if !found {
		log.Info("No build-info found for " + buildName + " #" + buildNumber + ", no vcs details will be taken from it.")
		return &buildinfo.BuildInfo{}, nil
	}

	return &publishedBuildInfo.BuildInfo, nil
}

// applyBuildInfo completes the notification with the first vcs entry of the build-info that has a revision.
// When a repository url is given only vcs entries of that repository are considered.
func applyBuildInfo(notification bitbucket.Notification, buildInfo *buildinfo.BuildInfo) bitbucket.Notification {
	if notification.PipelineStage == "" {
		notification.PipelineStage = buildInfo.Name
	}
	if notification.TrackbackUrl == "" {
		notification.TrackbackUrl = buildInfo.BuildUrl
	}
	for _, vcs := range buildInfo.VcsList {
		if vcs.Revision == "" {
			continue
		}
		if notification.RepositoryUrl != "" &&
			util.GetHttpsVcsUrl(vcs.Url) != util.GetHttpsVcsUrl(notification.RepositoryUrl) {
			log.Debug("Skipping vcs entry of " + vcs.Url + " as it is not " + notification.RepositoryUrl)
			continue
		}
		log.Debug("Using vcs information of " + vcs.Url + " @ " + vcs.Revision)
		if notification.RepositoryUrl == "" {
			notification.RepositoryUrl = vcs.Url
		}
		if notification.Revision == "" {
			notification.Revision = vcs.Revision
		}
		if notification.Branch == "" {
			notification.Branch = vcs.Branch
		}
		break
	}
	return notification
}
