package commands

import (
	"strings"

	utilsconfig "github.com/jfrog/jfrog-cli-core/v2/utils/config"
	"github.com/jfrog/jfrog-client-go/utils/errorutils"
	"github.com/jfrog/jfrog-client-go/utils/log"
	"github.com/marvelution/bitbucket-build-status/services/bitbucket"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables that hold the Bitbucket details.
const EnvPrefix = "BITBUCKET_STATUS"

type BitbucketConfiguration struct {
	serverID           string
	serverDetails      *utilsconfig.ServerDetails
	bitbucketID        string
	configFile         string
	settings           bitbucket.Settings
	dryRun             bool
	failOnMissingToken bool
}

func (bc *BitbucketConfiguration) SetServerID(serverID string) *BitbucketConfiguration {
	bc.serverID = serverID
	return bc
}

func (bc *BitbucketConfiguration) SetBitbucketID(bitbucketID string) *BitbucketConfiguration {
	bc.bitbucketID = bitbucketID
	return bc
}

func (bc *BitbucketConfiguration) SetConfigFile(configFile string) *BitbucketConfiguration {
	bc.configFile = configFile
	return bc
}

func (bc *BitbucketConfiguration) SetBitbucketDetails(url, username, password string) *BitbucketConfiguration {
	bc.settings.Endpoint = url
	bc.settings.Username = username
	bc.settings.Password = password
	return bc
}

func (bc *BitbucketConfiguration) SetAuthUrl(authUrl string) *BitbucketConfiguration {
	bc.settings.AuthUrl = authUrl
	return bc
}

func (bc *BitbucketConfiguration) SetDryRun(dryRun bool) *BitbucketConfiguration {
	bc.dryRun = dryRun
	return bc
}

func (bc *BitbucketConfiguration) SetFailOnMissingToken(failOnMissingToken bool) *BitbucketConfiguration {
	bc.failOnMissingToken = failOnMissingToken
	return bc
}

func (bc *BitbucketConfiguration) GetSettings() bitbucket.Settings {
	return bc.settings
}

// ValidateBitbucketConfiguration completes the details given on the command line with the ones from the
// environment and the configuration file, and checks that all required details are present.
func (bc *BitbucketConfiguration) ValidateBitbucketConfiguration() error {
	fallback, err := LoadBitbucketSettings(bc.configFile, bc.bitbucketID)
	if err != nil {
		return err
	}
	bc.settings = bc.settings.WithFallback(fallback)
	return errorutils.CheckError(bc.settings.Validate())
}

// GetServerDetails returns the details of the JFrog server to read build-info from.
// If no server-id was provided, the default server is used.
func (bc *BitbucketConfiguration) GetServerDetails() (*utilsconfig.ServerDetails, error) {
	if bc.serverDetails == nil {
		serverDetails, err := utilsconfig.GetSpecificConfig(bc.serverID, true, false)
		if err != nil {
			return nil, err
		}
		bc.serverDetails = serverDetails
	}
	return bc.serverDetails, nil
}

// LoadBitbucketSettings reads the Bitbucket details from, in order of precedence, the BITBUCKET_STATUS_*
// environment variables, the JFrog Pipelines integration variables (int_<bitbucketID>_*) and the configuration file.
func LoadBitbucketSettings(configFile, bitbucketID string) (bitbucket.Settings, error) {
	v := viper.New()
	for key, integrationField := range map[string]string{
		"endpoint": "url",
		"username": "username",
		"password": "token",
		"auth-url": "",
	} {
		envs := []string{key, EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))}
		if bitbucketID != "" && integrationField != "" {
			envs = append(envs, "int_"+bitbucketID+"_"+integrationField)
		}
		if err := v.BindEnv(envs...); err != nil {
			return bitbucket.Settings{}, err
		}
	}

	if configFile != "" {
		log.Debug("Loading Bitbucket details from " + configFile)
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return bitbucket.Settings{}, errorutils.CheckError(err)
		}
	}

	settings := bitbucket.Settings{}
	if err := v.Unmarshal(&settings); err != nil {
		return bitbucket.Settings{}, errorutils.CheckError(err)
	}
	return settings, nil
}
