package sitemap

import (
	"path/filepath"
	"strings"
)

// ignoreDirs lists VCS, IDE, cache and build-output directories that never
// contain documentable sources. Dot-prefixed directories are skipped
// unconditionally on top of this set.
var ignoreDirs = map[string]bool{
	".git": true, ".svn": true, ".hg": true,
	".idea": true, ".vscode": true,
	"__pycache__": true, ".mypy_cache": true, ".pytest_cache": true,
	".cache": true, "logs": true, "log": true,
	"tmp": true, "temp": true, "htmlcov": true,
	"env": true, "venv": true, ".venv": true,
	"node_modules": true,
	"build":        true,
	"dist":         true,
	"out":          true,
	"target":       true,
	".gradle":      true, ".next": true, ".serverless": true, ".terraform": true,
	".metals": true, ".bloop": true, ".ivy2": true,
	"project": true,
	".bundle": true, ".vagrant": true,
	".ipynb_checkpoints": true,
	".metadata":          true, ".settings": true,
}

var codeExtensions = []string{
	".py", ".js", ".ts", ".jsx", ".tsx", ".java", ".cpp", ".c",
	".h", ".hpp", ".go", ".rs", ".php", ".swift", ".cs",
	".html", ".css",
	".sh", ".bash", ".ps1",
	".ipynb",
	".scala", ".sbt", ".sql",
	".rb",
	".kt", ".kts",
	".dart",
	".r",
	".hs",
	".clj", ".cljs",
	".groovy",
	".elm",
	".vue",
	".lua",
	".coffee",
	".m", ".mm",
	".fs", ".fsi", ".fsx",
	".erl",
	".ex", ".exs",
	".asm", ".s",
	".config",
}

var docExtensions = []string{
	".md", ".txt", ".rst", ".json", ".yaml", ".yml",
	".ini", ".toml", ".xml", ".cfg", ".props", ".properties",
	".sql",
	".csv", ".tsv",
	".config",
}

var allowedExts = func() map[string]bool {
	m := make(map[string]bool, len(codeExtensions)+len(docExtensions))
	for _, ext := range codeExtensions {
		m[ext] = true
	}
	for _, ext := range docExtensions {
		m[ext] = true
	}
	return m
}()

// ignoreFiles lists exact names and glob patterns for lockfiles, archives
// and other generated artifacts that pass the extension allow-list but are
// never worth documenting.
var ignoreFiles = []string{
	"package-lock.json", "yarn.lock", "pnpm-lock.yaml",
	".DS_Store", ".env", ".gitignore",
	"*.log", "*.pyc", "*.pyo", "*.class", "*.jar", "*.war", "*.ear",
	"npm-debug.log", "yarn-debug.log", "yarn-error.log",
	"*.zip", "*.tar", "*.tar.gz", "*.rar", "*.7z",
	"*.db",
	".npmrc", ".yarnrc",
	".env.local", ".env.*",
	".eslintcache",
	"Makefile", "makefile",
}

func skipDir(name string) bool {
	return ignoreDirs[name] || strings.HasPrefix(name, ".")
}

func skipFile(name string) bool {
	for _, pattern := range ignoreFiles {
		if !strings.Contains(pattern, "*") {
			if name == pattern {
				return true
			}
			continue
		}
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
