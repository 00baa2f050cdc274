// Package config holds the command-line configuration of govault.
package config

import (
	"errors"

	"github.com/idelchi/govault/internal/encryption"
)

// Config is the resolved configuration of a single command invocation.
// Values come from flags and GOVAULT_* environment variables.
type Config struct {
	// Storage
	Database    string `label:"--db"           mapstructure:"db"           validate:"required"`
	BlobBackend string `label:"--blob-backend" mapstructure:"blob-backend" validate:"oneof=fs badger"`
	BlobDir     string `label:"--blob-dir"     mapstructure:"blob-dir"     validate:"required"`
	Cipher      string `label:"--cipher"       mapstructure:"cipher"       validate:"oneof=fernet gcm"`
	Passphrase  string `label:"--passphrase"   mapstructure:"passphrase"   mask:"fixed"`

	// Output
	Parallel  int    `label:"--parallel"   mapstructure:"parallel"   validate:"min=1"`
	Quiet     bool   `label:"--quiet"      mapstructure:"quiet"`
	Stats     bool   `label:"--stats"      mapstructure:"stats"`
	Show      bool   `label:"--show"       mapstructure:"show"`
	LogLevel  string `label:"--log-level"  mapstructure:"log-level"  validate:"loglevel"`
	LogFormat string `label:"--log-format" mapstructure:"log-format" validate:"oneof=text json"`

	// Download
	Output string `label:"--output" mapstructure:"output"`
	Force  bool   `label:"--force"  mapstructure:"force"`

	// Positional arguments: file paths for upload, record IDs otherwise.
	Args []string `mapstructure:"-"`
}

// Display returns the value of the Show field.
func (c Config) Display() bool {
	return c.Show
}

// Validate validates the configuration against the struct tags.
func (c Config) Validate(config any) error {
	validator, err := newValidator()
	if err != nil {
		return err
	}

	if errs := validator.Validate(config); errs != nil {
		return errors.Join(errs...)
	}

	return nil
}

// Mode returns the cipher suite selected by Cipher.
func (c Config) Mode() (encryption.CipherMode, error) {
	return encryption.ParseMode(c.Cipher)
}
