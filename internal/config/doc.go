// Package config loads mcpconf's own settings.
//
// Settings come from config.yaml, searched in $MCPCONF_CONFIG_DIR, the
// current directory and ~/.config/mcpconf, in that order. Every key can be
// overridden with an MCPCONF_-prefixed environment variable.
//
//	version: 1
//	default_client: vscode      # used when --client is omitted
//	backup: true                # back up config files before writing
//	python: python3             # interpreter placed in generated entries
//	plugin_dirs:                # extra server descriptor directories
//	  - ~/.config/mcpconf/servers
package config
