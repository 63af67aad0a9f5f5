package verifybitbucket

func GetDescription() string {
	return "Verify that an access token can be obtained from Bitbucket with the configured credentials."
}
