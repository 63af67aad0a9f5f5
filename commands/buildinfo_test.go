package commands

import (
	"testing"

	buildinfo "github.com/jfrog/build-info-go/entities"
	"github.com/stretchr/testify/assert"

	"github.com/marvelution/bitbucket-build-status/services/bitbucket"
)

func TestApplyBuildInfo(t *testing.T) {
	buildInfo := &buildinfo.BuildInfo{
		Name:     "widgets",
		Number:   "42",
		BuildUrl: "https://ci.example.com/run/42",
		VcsList: []buildinfo.Vcs{
			{Url: "https://bitbucket.org/acme/tools.git"},
			{Url: "git@bitbucket.org:acme/widgets.git", Revision: "0123abcd", Branch: "main"},
			{Url: "https://bitbucket.org/acme/other.git", Revision: "ffff0000", Branch: "develop"},
		},
	}

	notification := applyBuildInfo(bitbucket.Notification{Result: "Passed"}, buildInfo)

	assert.Equal(t, bitbucket.Notification{
		RepositoryUrl: "git@bitbucket.org:acme/widgets.git",
		Branch:        "main",
		Revision:      "0123abcd",
		PipelineStage: "widgets",
		Result:        "Passed",
		TrackbackUrl:  "https://ci.example.com/run/42",
	}, notification)
}

func TestApplyBuildInfo_MatchesRepositoryUrl(t *testing.T) {
	buildInfo := &buildinfo.BuildInfo{
		Name: "widgets",
		VcsList: []buildinfo.Vcs{
			{Url: "https://bitbucket.org/acme/widgets.git", Revision: "0123abcd", Branch: "main"},
			{Url: "https://bitbucket.org/acme/other.git", Revision: "ffff0000", Branch: "develop"},
		},
	}

	notification := applyBuildInfo(bitbucket.Notification{
		RepositoryUrl: "git@bitbucket.org:acme/other.git",
		PipelineStage: "deploy",
		TrackbackUrl:  "https://ci.example.com/run/7",
	}, buildInfo)

	assert.Equal(t, "git@bitbucket.org:acme/other.git", notification.RepositoryUrl)
	assert.Equal(t, "ffff0000", notification.Revision)
	assert.Equal(t, "develop", notification.Branch)
	assert.Equal(t, "deploy", notification.PipelineStage)
	assert.Equal(t, "https://ci.example.com/run/7", notification.TrackbackUrl)
}

func TestApplyBuildInfo_KeepsGivenValues(t *testing.T) {
	buildInfo := &buildinfo.BuildInfo{
		VcsList: []buildinfo.Vcs{{Url: "https://bitbucket.org/acme/widgets.git", Revision: "0123abcd", Branch: "main"}},
	}

	notification := applyBuildInfo(bitbucket.Notification{Revision: "cafebabe", Branch: "release"}, buildInfo)

	assert.Equal(t, "https://bitbucket.org/acme/widgets.git", notification.RepositoryUrl)
	assert.Equal(t, "cafebabe", notification.Revision)
	assert.Equal(t, "release", notification.Branch)
}

func TestApplyBuildInfo_Empty(t *testing.T) {
	notification := applyBuildInfo(bitbucket.Notification{PipelineStage: "build"}, &buildinfo.BuildInfo{})

	assert.Equal(t, bitbucket.Notification{PipelineStage: "build"}, notification)
}
