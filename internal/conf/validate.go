// validate.go validation of configuration settings
package conf

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidateSettings checks the loaded settings for inconsistencies that would
// otherwise only surface at request time.
func ValidateSettings(settings *Settings) error {
	var errs []string

	if err := validateStorageSettings(&settings.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateOutputSettings(&settings.Output); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDiagnosticsSettings(&settings.Diagnostics); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStorageSettings(storage *StorageSettings) error {
	if storage.BaseURL != "" {
		u, err := url.Parse(storage.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("storage.baseurl must be an absolute URL, got %q", storage.BaseURL)
		}
		// Trailing slashes would double up in constructed object URLs
		storage.BaseURL = strings.TrimRight(storage.BaseURL, "/")
	}

	if storage.Preflight.Enabled {
		if storage.Preflight.RequestsPerSecond <= 0 {
			return fmt.Errorf("storage.preflight.requestspersecond must be positive when preflight is enabled")
		}
		if storage.Preflight.TimeoutSeconds <= 0 {
			return fmt.Errorf("storage.preflight.timeoutseconds must be positive when preflight is enabled")
		}
	}
	return nil
}

func validateOutputSettings(output *OutputSettings) error {
	if output.SQLite.Enabled && output.MySQL.Enabled {
		return fmt.Errorf("only one of output.sqlite and output.mysql may be enabled")
	}
	if !output.SQLite.Enabled && !output.MySQL.Enabled {
		return fmt.Errorf("one of output.sqlite or output.mysql must be enabled")
	}
	if output.SQLite.Enabled && output.SQLite.Path == "" {
		return fmt.Errorf("output.sqlite.path must be set")
	}
	if output.MySQL.Enabled {
		if output.MySQL.Host == "" || output.MySQL.Database == "" {
			return fmt.Errorf("output.mysql.host and output.mysql.database must be set")
		}
	}
	return nil
}

func validateWebServerSettings(ws *WebServerSettings) error {
	if !ws.Enabled {
		return nil
	}
	port, err := strconv.Atoi(ws.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("webserver.port must be a number between 1 and 65535, got %q", ws.Port)
	}
	return nil
}

func validateDiagnosticsSettings(d *DiagnosticsSettings) error {
	if d.Capacity < 0 {
		return fmt.Errorf("diagnostics.capacity must not be negative")
	}
	if d.Capacity == 0 {
		d.Capacity = DefaultDiagnosticsCapacity
	}
	return nil
}
