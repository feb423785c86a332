package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/composer-merge/pkg/errors"
)

// Environment variable names
const (
	// EnvRepoRoot overrides repository root discovery
	EnvRepoRoot = "COMPOSER_MERGE_ROOT"

	// EnvConfigDir overrides the XDG config directory
	EnvConfigDir = "COMPOSER_MERGE_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory
	EnvStateDir = "COMPOSER_MERGE_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default file names
const (
	// AppDirName is the directory name used under the XDG base directories
	AppDirName = "composer-merge"

	// UserConfigFile is the name of the user configuration file
	UserConfigFile = "config.toml"

	// RepoConfigFile is the name of the per repository configuration file
	RepoConfigFile = ".composer-merge.toml"

	// LogFileName is the name of the log file
	LogFileName = "composer-merge.log"
)

// Paths resolves the locations the merge driver reads and writes besides
// the merged files themselves
type Paths interface {
	RepoRoot() string
	UsedFallback() bool
	ConfigDir() string
	StateDir() string
	UserConfigPath() string
	RepoConfigPath() string
	LogFilePath() string
	NormalizePath(path string) (string, error)
}

type paths struct {
	repoRoot     string
	xdgConfig    string
	xdgState     string
	usedFallback bool
}

// New creates a Paths instance. An empty repoRoot is discovered from the
// environment, then git, then the working directory.
func New(repoRoot string) (Paths, error) {
	p := &paths{}

	if repoRoot == "" {
		root, usedFallback, err := findRepoRoot()
		if err != nil {
			return nil, err
		}
		p.repoRoot = root
		p.usedFallback = usedFallback
	} else {
		p.repoRoot = expandHome(repoRoot)
	}

	absRoot, err := filepath.Abs(p.repoRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for repository root")
	}
	p.repoRoot = absRoot

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if stateDir := os.Getenv(EnvStateDir); stateDir != "" {
		p.xdgState = expandHome(stateDir)
	} else {
		p.xdgState = filepath.Join(xdg.StateHome, AppDirName)
	}

	return p, nil
}

// findRepoRoot returns the repository root and whether the working
// directory was used as fallback
func findRepoRoot() (string, bool, error) {
	if root := os.Getenv(EnvRepoRoot); root != "" {
		return expandHome(root), false, nil
	}

	if gitRoot, err := findGitRoot(); err == nil {
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrInternal, "failed to get current directory")
	}
	return cwd, true, nil
}

func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrInternal, "git root is empty")
	}
	return gitRoot, nil
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	// ~user is not expanded
	return path
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	return expandHome(path)
}

func (p *paths) RepoRoot() string {
	return p.repoRoot
}

// UsedFallback returns true if the working directory stands in for the
// repository root
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

func (p *paths) StateDir() string {
	return p.xdgState
}

func (p *paths) UserConfigPath() string {
	return filepath.Join(p.xdgConfig, UserConfigFile)
}

func (p *paths) RepoConfigPath() string {
	return filepath.Join(p.repoRoot, RepoConfigFile)
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// NormalizePath expands home, makes path absolute and cleans it
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path")
	}
	return filepath.Clean(abs), nil
}
