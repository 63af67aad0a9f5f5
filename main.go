package main

import (
	"errors"
	"fmt"

	artifactoryUtils "github.com/jfrog/jfrog-cli-core/v2/artifactory/utils"
	"github.com/jfrog/jfrog-cli-core/v2/plugins"
	"github.com/jfrog/jfrog-cli-core/v2/plugins/components"
	"github.com/marvelution/bitbucket-build-status/commands"
	"github.com/marvelution/bitbucket-build-status/docs/notifybitbucket"
	"github.com/marvelution/bitbucket-build-status/docs/verifybitbucket"
	"github.com/marvelution/bitbucket-build-status/services/bitbucket"
)

func main() {
	plugins.PluginMain(components.App{
		Name:        "bitbucket-build-status",
		Description: "Bitbucket commit build status notifier.",
		Version:     "v1.0.0",
		Commands: []components.Command{
			{
				Name:        "notify-bitbucket",
				Description: notifybitbucket.GetDescription(),
				Aliases:     []string{"nb"},
				Flags: append(bitbucketFlags(),
					components.StringFlag{
						Name:        "server-id",
						Description: "Server ID configured using the config command, used to read build-info and Pipelines runs.",
					},
					components.StringFlag{
						Name:        "project",
						Description: "JFrog project key of the build.",
					},
					components.StringFlag{
						Name:        "repository-url",
						Description: "Clone url of the Bitbucket repository, https or ssh.",
					},
					components.StringFlag{
						Name:        "branch",
						Description: "Branch that was built.",
					},
					components.StringFlag{
						Name:        "revision",
						Description: "Commit hash to add the build status to.",
					},
					components.StringFlag{
						Name:        "stage",
						Description: "Name of the pipeline stage, the first 40 characters are used as the status key. Defaults to the build name.",
					},
					components.StringFlag{
						Name:        "result",
						Description: "Result of the pipeline stage: Passed, Failed or Cancelled. Any other value is reported as in progress.",
					},
					components.StringFlag{
						Name:        "trackback-url",
						Description: "Link back to the pipeline run. Defaults to the build url of the build-info.",
					},
					components.StringFlag{
						Name:        "run-id",
						Description: "Pipelines run to read the result from when no result is given.",
					},
					components.BoolFlag{
						Name:         "include-pre-post-run-steps",
						Description:  "Set to true to include the pre and post run steps when reading the result of a Pipelines run.",
						DefaultValue: false,
					},
					components.BoolFlag{
						Name:         "dry-run",
						Description:  "Set to true to only log the build status that would be sent.",
						DefaultValue: false,
					},
					components.BoolFlag{
						Name:         "fail-on-missing-token",
						Description:  "Set to true to fail when Bitbucket returns no access token, instead of skipping the notification.",
						DefaultValue: false,
					},
				),
				Arguments: []components.Argument{
					{
						Name:        "build name",
						Description: "The name of the build.",
					},
					{
						Name:        "build number",
						Description: "The number of the build.",
					},
				},
				Action: func(c *components.Context) error {
					return notifyBitbucketCmd(c)
				},
			},
			{
				Name:        "verify-bitbucket",
				Description: verifybitbucket.GetDescription(),
				Aliases:     []string{"vb"},
				Flags:       bitbucketFlags(),
				Action: func(c *components.Context) error {
					return verifyBitbucketCmd(c)
				},
			},
		},
	})
}

func bitbucketFlags() []components.Flag {
	return []components.Flag{
		components.StringFlag{
			Name:        "bitbucket-id",
			Description: "Name of the Pipelines integration to read the Bitbucket details from.",
		},
		components.StringFlag{
			Name:        "bitbucket-url",
			Description: "Bitbucket API url, e.g. https://api.bitbucket.org.",
		},
		components.StringFlag{
			Name:        "bitbucket-username",
			Description: "OAuth consumer key used to get an access token.",
		},
		components.StringFlag{
			Name:        "bitbucket-password",
			Description: "OAuth consumer secret used to get an access token.",
		},
		components.StringFlag{
			Name:        "auth-url",
			Description: "Url to get an access token from, defaults to " + bitbucket.DefaultAuthUrl + ".",
		},
		components.StringFlag{
			Name:        "config",
			Description: "Configuration file (yaml, json or toml) holding the endpoint, username, password and auth-url.",
		},
	}
}

func notifyBitbucketCmd(c *components.Context) error {
	nargs := len(c.Arguments)
	if nargs != 0 && nargs != 2 {
		return errors.New(fmt.Sprintf("Wrong number of arguments (%d).", nargs))
	}
	bitbucketConfiguration, err := CreateBitbucketConfiguration(c)
	if err != nil {
		return err
	}

	notifyCommand := commands.NewNotifyBitbucketCommand().
		SetBitbucketConfiguration(bitbucketConfiguration).
		SetNotification(bitbucket.Notification{
			RepositoryUrl: c.GetStringFlagValue("repository-url"),
			Branch:        c.GetStringFlagValue("branch"),
			Revision:      c.GetStringFlagValue("revision"),
			PipelineStage: c.GetStringFlagValue("stage"),
			Result:        c.GetStringFlagValue("result"),
			TrackbackUrl:  c.GetStringFlagValue("trackback-url"),
		}).
		SetRunId(c.GetStringFlagValue("run-id")).
		SetIncludePrePostRunSteps(c.GetBoolFlagValue("include-pre-post-run-steps"))
	if nargs == 2 {
		notifyCommand.SetBuildConfiguration(CreateBuildConfiguration(c))
	}
	return notifyCommand.Run()
}

func verifyBitbucketCmd(c *components.Context) error {
	if nargs := len(c.Arguments); nargs != 0 {
		return errors.New(fmt.Sprintf("Wrong number of arguments (%d).", nargs))
	}
	bitbucketConfiguration, err := CreateBitbucketConfiguration(c)
	if err != nil {
		return err
	}
	return commands.NewVerifyBitbucketCommand().SetBitbucketConfiguration(bitbucketConfiguration).Run()
}

func CreateBuildConfiguration(c *components.Context) *artifactoryUtils.BuildConfiguration {
	buildConfiguration := new(artifactoryUtils.BuildConfiguration)
	buildConfiguration.SetBuildName(c.Arguments[0]).SetBuildNumber(c.Arguments[1]).SetProject(c.GetStringFlagValue("project"))
	return buildConfiguration
}

func CreateBitbucketConfiguration(c *components.Context) (*commands.BitbucketConfiguration, error) {
	bitbucketConfiguration := new(commands.BitbucketConfiguration).
		SetServerID(c.GetStringFlagValue("server-id")).
		SetBitbucketID(c.GetStringFlagValue("bitbucket-id")).
		SetConfigFile(c.GetStringFlagValue("config")).
		SetBitbucketDetails(c.GetStringFlagValue("bitbucket-url"), c.GetStringFlagValue("bitbucket-username"),
			c.GetStringFlagValue("bitbucket-password")).
		SetAuthUrl(c.GetStringFlagValue("auth-url")).
		SetDryRun(c.GetBoolFlagValue("dry-run")).
		SetFailOnMissingToken(c.GetBoolFlagValue("fail-on-missing-token"))
	if err := bitbucketConfiguration.ValidateBitbucketConfiguration(); err != nil {
		return nil, err
	}
	return bitbucketConfiguration, nil
}
