package notifybitbucket

func GetDescription() string {
	return "Send the status of a pipeline stage to Bitbucket as a commit build status. " +
		"Missing vcs details are read from the published build-info when a build name and number are given."
}
