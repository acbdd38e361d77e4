// Package config loads envsync's own settings.
//
// Settings are layered, later layers winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user settings file ($XDG_CONFIG_HOME/envsync/config.toml, or an
//     explicit file)
//  3. a .env file next to the sync script
//  4. ENVSYNC_<SECTION>_<KEY> environment variables
//
// These settings tune the tool itself. They are unrelated to the sync
// script passed with --config.
package config
