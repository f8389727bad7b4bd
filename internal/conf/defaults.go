// defaults.go Default configuration settings
package conf

import (
	"github.com/spf13/viper"
)

// setDefaultConfig sets the default configuration values
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	// Main configuration
	viper.SetDefault("main.name", "Limitless")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "limitless.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)

	// Object storage configuration
	viper.SetDefault("storage.baseurl", "")
	viper.SetDefault("storage.anonkey", "")
	viper.SetDefault("storage.placeholder", "/images/image-coming-soon.webp")
	viper.SetDefault("storage.buckets", map[string]string{})
	viper.SetDefault("storage.preflight.enabled", false)
	viper.SetDefault("storage.preflight.requestspersecond", 2.0)
	viper.SetDefault("storage.preflight.burst", 4)
	viper.SetDefault("storage.preflight.timeoutseconds", 5)

	// Metadata store configuration
	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "images.db")
	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "limitless")
	viper.SetDefault("output.mysql.password", "limitless")
	viper.SetDefault("output.mysql.database", "limitless")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")

	// Webserver configuration
	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.port", "8090")
	viper.SetDefault("webserver.debug", false)
	viper.SetDefault("webserver.log.enabled", true)
	viper.SetDefault("webserver.log.path", "webserver.log")
	viper.SetDefault("webserver.log.rotation", RotationDaily)
	viper.SetDefault("webserver.log.maxsize", 1048576)

	// Resolution diagnostics (dev overlay feed)
	viper.SetDefault("diagnostics.enabled", false)
	viper.SetDefault("diagnostics.capacity", DefaultDiagnosticsCapacity)

	// Error telemetry
	viper.SetDefault("sentry.enabled", false)
	viper.SetDefault("sentry.dsn", "")
}
