package chunker

import "strings"

// langByExt maps file extensions to the language label used for structural
// chunking. Extensions outside this table use the sentence fallback.
var langByExt = map[string]string{
	".c":     "c",
	".cpp":   "cpp",
	".h":     "c",
	".hpp":   "cpp",
	".cs":    "c_sharp",
	".go":    "go",
	".java":  "java",
	".js":    "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".tsx":   "tsx",
	".py":    "python",
	".rb":    "ruby",
	".php":   "php",
	".rs":    "rust",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
	".m":     "objc",
	".mm":    "objc",
	".pl":    "perl",
	".pm":    "perl",
	".lua":   "lua",
	".sh":    "bash",
	".ps1":   "powershell",
	".sql":   "sql",
	".html":  "html",
	".css":   "css",
	".json":  "json",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".xml":   "xml",
}

// textExts are documentation extensions; their chunks carry is_code=false.
var textExts = map[string]struct{}{
	".txt": {},
	".md":  {},
	".rst": {},
}

// LanguageForExt returns the structural-chunking language for a file
// extension, if one is recognized.
func LanguageForExt(ext string) (string, bool) {
	lang, ok := langByExt[strings.ToLower(ext)]
	return lang, ok
}

// IsCode reports whether chunks from files with this extension should be
// flagged as code rather than prose.
func IsCode(ext string) bool {
	_, ok := textExts[strings.ToLower(ext)]
	return !ok
}
