package bitbucket

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetState(t *testing.T) {
	tests := []struct {
		result   string
		expected CommitBuildState
	}{
		{"Passed", Successful},
		{"passed", Successful},
		{"PASSED", Successful},
		{"Failed", Failed},
		{"fAiLeD", Failed},
		{"Cancelled", Stopped},
		{"CANCELLED", Stopped},
		{"Canceled", InProgress},
		{"Building", InProgress},
		{"Unknown", InProgress},
		{" Passed", InProgress},
		{"", InProgress},
	}
	for _, tt := range tests {
		t.Run(tt.result, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetState(tt.result))
		})
	}
}

func TestCommitBuildStateDescription(t *testing.T) {
	assert.Equal(t, "The build is in progress.", InProgress.Description())
	assert.Equal(t, "This commit looks good.", Successful.Description())
	assert.Equal(t, "This commit has failed.", Failed.Description())
	assert.Equal(t, "The build was canceled.", Stopped.Description())
	assert.Equal(t, "We don't know about the statuses.", CommitBuildState("PENDING").Description())
}

func TestStatusKey(t *testing.T) {
	assert.Equal(t, "build", StatusKey("build"))
	assert.Equal(t, "", StatusKey(""))

	exact := strings.Repeat("a", MaxKeyLength)
	assert.Equal(t, exact, StatusKey(exact))

	long := strings.Repeat("0123456789", 5)
	assert.Equal(t, long[:MaxKeyLength], StatusKey(long))

	multiByte := strings.Repeat("é", MaxKeyLength+5)
	key := StatusKey(multiByte)
	assert.Equal(t, MaxKeyLength, utf8.RuneCountInString(key))
	assert.True(t, strings.HasPrefix(multiByte, key))
}

func TestNewCommitStatus(t *testing.T) {
	stage := "my-pipeline/compile-and-package-all-the-modules"
	status := NewCommitStatus(stage, "feature/a-rather-long-branch-name", Failed, "https://ci.example.com/run/42")

	assert.Equal(t, Failed, status.State)
	assert.Equal(t, stage[:MaxKeyLength], status.Key)
	assert.Equal(t, stage+" » feature/a-rather-long-branch-name", status.Name)
	assert.Equal(t, "https://ci.example.com/run/42", status.Url)
	assert.Equal(t, "This commit has failed.", status.Description)
}

func TestNotificationCommitStatus(t *testing.T) {
	notification := Notification{
		RepositoryUrl: "https://bitbucket.org/acme/widgets.git",
		Branch:        "main",
		Revision:      "abc123",
		PipelineStage: "build",
		Result:        "passed",
		TrackbackUrl:  "https://ci.example.com/run/1",
	}

	content, err := json.Marshal(notification.CommitStatus())
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(content, &payload))
	assert.Equal(t, map[string]any{
		"state":       "SUCCESSFUL",
		"key":         "build",
		"name":        "build » main",
		"url":         "https://ci.example.com/run/1",
		"description": "This commit looks good.",
	}, payload)
}

func TestParseRepositoryName(t *testing.T) {
	tests := map[string]string{
		"https://bitbucket.org/acme/widgets.git":      "acme/widgets",
		"https://bitbucket.org/acme/widgets":          "acme/widgets",
		"https://bitbucket.org/acme/widgets/":         "acme/widgets",
		"https://jdoe@bitbucket.org/acme/widgets.git": "acme/widgets",
		"git@bitbucket.org:acme/widgets.git":          "acme/widgets",
		"ssh://git@bitbucket.org/acme/widgets.git":    "acme/widgets",
		"https://bitbucket.org/acme/widgets.api.git":  "acme/widgets",
	}
	for in, expected := range tests {
		t.Run(in, func(t *testing.T) {
			repository, err := ParseRepositoryName(in)
			require.NoError(t, err)
			assert.Equal(t, expected, repository.FullName())
		})
	}
}

func TestParseRepositoryName_Malformed(t *testing.T) {
	for _, in := range []string{"", "widgets", "bitbucket.org/acme", "https://bitbucket.org", "https://bitbucket.org/acme/.git"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseRepositoryName(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput))
		})
	}
}

func TestResponseError(t *testing.T) {
	err := NewResponseError(ErrAuthentication, "https://bitbucket.org/site/oauth2/access_token", 401, "401 Unauthorized", []byte("nope"))

	assert.True(t, errors.Is(err, ErrAuthentication))
	assert.False(t, errors.Is(err, ErrTransport))
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "nope")
}
