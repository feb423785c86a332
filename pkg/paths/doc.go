// Package paths provides the file locations used by composer-merge.
//
// # Environment Variables
//
//   - COMPOSER_MERGE_ROOT: repository root holding .composer-merge.toml
//     (default: git toplevel, then the working directory)
//   - COMPOSER_MERGE_CONFIG_DIR: override the config directory
//     (default: $XDG_CONFIG_HOME/composer-merge)
//   - COMPOSER_MERGE_STATE_DIR: override the state directory holding the log
//     file (default: $XDG_STATE_HOME/composer-merge)
//
// # Usage
//
//	p, err := paths.New("")
//	if err != nil {
//	    return err
//	}
//	userConfig := p.UserConfigPath() // ~/.config/composer-merge/config.toml
//	repoConfig := p.RepoConfigPath() // <repo>/.composer-merge.toml
package paths
