// Package file keeps docchat's user-editable state on disk under the
// configuration directory (~/.docchat by default): config.toml, and the
// prompts/ directory with its watcher.
package file
