// Package backup keeps pre-mutation copies of host config files.
//
// A backup is a plain copy placed next to the config it was taken from,
// named after the config's stem and the time it was taken:
//
//	claude_desktop_config.backup_20260123_100712.json   (Visible)
//	.mcp.backup_20260123_100712                          (Hidden)
//
// A second backup within the same second gets a numeric suffix
// (_1, _2, ...). Existing backups are never overwritten and never pruned;
// cleaning them up is left to the user.
//
// # Creating Backups
//
//	mgr := backup.NewManager(backup.Visible)
//	b, err := mgr.Create(configPath)
//
// Create returns nil when the config does not exist yet.
//
// # Listing and Restoring
//
// [Manager.List] finds the backups of one config file, newest first, and
// flags those whose contents match the current file. [Manager.Restore]
// backs up the current file and then atomically replaces it with the
// chosen backup.
package backup
