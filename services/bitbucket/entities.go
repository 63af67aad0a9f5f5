package bitbucket

import (
	"fmt"
	"strings"

	"github.com/marvelution/bitbucket-build-status/util"
)

// MaxKeyLength is the longest key Bitbucket accepts for a commit build status.
const MaxKeyLength = 40

type CreateCommitStatus struct {
	State       CommitBuildState `json:"state"`
	Key         string           `json:"key"`
	Name        string           `json:"name"`
	Url         string           `json:"url"`
	Description string           `json:"description"`
}

type CommitBuildState string

const (
	Successful CommitBuildState = "SUCCESSFUL"
	Failed     CommitBuildState = "FAILED"
	Stopped    CommitBuildState = "STOPPED"
	InProgress CommitBuildState = "INPROGRESS"
)

// GetState maps the result of a pipeline stage onto a Bitbucket build state.
// Unknown or empty results are reported as in progress.
func GetState(result string) CommitBuildState {
	switch {
	case strings.EqualFold(result, "Passed"):
		return Successful
	case strings.EqualFold(result, "Failed"):
		return Failed
	case strings.EqualFold(result, "Cancelled"):
		return Stopped
	default:
		return InProgress
	}
}

func (s CommitBuildState) Description() string {
	switch s {
	case InProgress:
		return "The build is in progress."
	case Successful:
		return "This commit looks good."
	case Failed:
		return "This commit has failed."
	case Stopped:
		return "The build was canceled."
	default:
		return "We don't know about the statuses."
	}
}

type Notification struct {
	RepositoryUrl string
	Branch        string
	Revision      string
	PipelineStage string
	Result        string
	TrackbackUrl  string
}

func (n Notification) CommitStatus() CreateCommitStatus {
	return NewCommitStatus(n.PipelineStage, n.Branch, GetState(n.Result), n.TrackbackUrl)
}

func NewCommitStatus(pipelineStage, branch string, state CommitBuildState, trackbackUrl string) CreateCommitStatus {
	return CreateCommitStatus{
		State:       state,
		Key:         StatusKey(pipelineStage),
		Name:        pipelineStage + " » " + branch,
		Url:         trackbackUrl,
		Description: state.Description(),
	}
}

// StatusKey truncates the pipeline stage to MaxKeyLength characters.
func StatusKey(pipelineStage string) string {
	runes := []rune(pipelineStage)
	if len(runes) > MaxKeyLength {
		return string(runes[:MaxKeyLength])
	}
	return pipelineStage
}

type Repository struct {
	Owner string
	Slug  string
}

func (r Repository) FullName() string {
	return r.Owner + "/" + r.Slug
}

func (r Repository) String() string {
	return r.FullName()
}

// ParseRepositoryName extracts the owner and slug from a repository clone url,
// e.g. https://bitbucket.org/acme/widgets.git or git@bitbucket.org:acme/widgets.git.
func ParseRepositoryName(repositoryUrl string) (Repository, error) {
	parts := strings.Split(strings.TrimRight(util.GetHttpsVcsUrl(repositoryUrl), "/"), "/")
	if len(parts) < 4 {
		return Repository{}, fmt.Errorf("%w: repository url %q has %d path segments, expected at least 4",
			ErrMalformedInput, repositoryUrl, len(parts))
	}
	repository := Repository{
		Owner: parts[3],
		Slug:  strings.Split(parts[len(parts)-1], ".")[0],
	}
	if repository.Owner == "" || repository.Slug == "" {
		return Repository{}, fmt.Errorf("%w: unable to read owner and slug from repository url %q",
			ErrMalformedInput, repositoryUrl)
	}
	return repository, nil
}

type AccessTokenResponse struct {
	AccessToken  string `json:"access_token"`
	Scopes       string `json:"scopes,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}
