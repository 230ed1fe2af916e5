package config

const (
	defaultRepoDir     = "."
	defaultArtifactDir = "build"
	defaultStateDir    = "~/.local/share/adujour"
	defaultLogDir      = "~/.local/share/adujour/logs"
	defaultCredentials = "credentials.json"
	defaultSheetRange  = "A1:Z"
	defaultRemote      = "origin"
	defaultBranch      = "gh-pages"
	defaultStrategy    = "subtree"
	defaultSiteTitle   = "Album du Jour"
	defaultSubtitle    = "Personal Music Discovery"
	defaultLogFormat   = "auto"
	defaultLogLevel    = "info"
)

func defaultWhitelist() []string {
	return []string{"index.html", "styles.css", "scripts.js", "assets"}
}

func defaultKeepMarkers() []string {
	return []string{"CNAME", ".nojekyll"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RepoDir:         defaultRepoDir,
			ArtifactDir:     defaultArtifactDir,
			StateDir:        defaultStateDir,
			LogDir:          defaultLogDir,
			CredentialsPath: defaultCredentials,
		},
		Sheet: Sheet{
			Range: defaultSheetRange,
		},
		Deploy: Deploy{
			Remote:      defaultRemote,
			Branch:      defaultBranch,
			Strategy:    defaultStrategy,
			Whitelist:   defaultWhitelist(),
			KeepMarkers: defaultKeepMarkers(),
		},
		Site: Site{
			Title:    defaultSiteTitle,
			Subtitle: defaultSubtitle,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
