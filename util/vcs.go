package util

import (
	"regexp"
	"strings"
)

var (
	httpsVcsUrl = regexp.MustCompile(`^https://(?:[^@/]+@)?([^/]+)/(.*)$`)
	sshVcsUrl   = regexp.MustCompile(`^(?:ssh://)?[^@/]+@([^:/]+)[:/](.*)$`)
)

// GetSshVcsUrl returns the scp-like ssh form (git@host:path) of a clone url.
func GetSshVcsUrl(vcsUrl string) string {
	if strings.HasPrefix(vcsUrl, "git@") {
		return vcsUrl
	}
	return httpsVcsUrl.ReplaceAllString(vcsUrl, "git@$1:$2")
}

// GetHttpsVcsUrl returns the https form of a clone url without any user info.
func GetHttpsVcsUrl(vcsUrl string) string {
	if strings.HasPrefix(vcsUrl, "https://") {
		return httpsVcsUrl.ReplaceAllString(vcsUrl, "https://$1/$2")
	}
	return sshVcsUrl.ReplaceAllString(vcsUrl, "https://$1/$2")
}
