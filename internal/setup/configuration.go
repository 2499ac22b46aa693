package setup

import "strings"

const (
	defaultRemoteNameConstant          = "target"
	userNameConfigurationKeyConstant   = "setup.user_name"
	userEmailConfigurationKeyConstant  = "setup.user_email"
	remoteNameConfigurationKeyConstant = "setup.remote_name"
)

// Configuration aggregates settings for the setup command.
type Configuration struct {
	UserName   string `mapstructure:"user_name"`
	UserEmail  string `mapstructure:"user_email"`
	RemoteName string `mapstructure:"remote_name"`
}

// DefaultConfiguration supplies baseline values for setup configuration.
func DefaultConfiguration() Configuration {
	return Configuration{
		RemoteName: defaultRemoteNameConstant,
	}
}

// DefaultConfigurationValues exposes setup defaults keyed for configuration loading.
func DefaultConfigurationValues() map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		userNameConfigurationKeyConstant:   defaults.UserName,
		userEmailConfigurationKeyConstant:  defaults.UserEmail,
		remoteNameConfigurationKeyConstant: defaults.RemoteName,
	}
}

// Sanitize trims configured values and restores defaults for empty entries.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.UserName = strings.TrimSpace(configuration.UserName)
	sanitized.UserEmail = strings.TrimSpace(configuration.UserEmail)
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = defaultRemoteNameConstant
	}
	return sanitized
}
