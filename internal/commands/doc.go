// Package commands provides the command-line interface for the govault tool.
//
// It implements commands for:
//   - uploading files, encrypted under a passphrase
//   - downloading and decrypting them
//   - verifying stored content against its digest
//   - listing and deleting records
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands
