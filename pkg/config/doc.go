// Package config loads composer-merge settings. Layers are applied in order,
// later ones winning: embedded defaults, the user file, the repository file,
// an explicit --config file, COMPOSER_MERGE_* environment variables and
// finally command line overrides.
package config
