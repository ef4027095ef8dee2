package main

import (
	_ "embed"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed languages.yml
var languagesYAML []byte

// languageInfo holds the detection fields for one language.
type languageInfo struct {
	Extensions []string `yaml:"extensions"`
	Filenames  []string `yaml:"filenames"`
}

var (
	langOnce    sync.Once
	extToLang   map[string]string
	fnameToLang map[string]string
)

func loadLanguages() {
	var langs map[string]languageInfo
	if err := yaml.Unmarshal(languagesYAML, &langs); err != nil {
		warnf("could not parse embedded language table: %v", err)
		return
	}
	extToLang = make(map[string]string)
	fnameToLang = make(map[string]string)
	// Sorted iteration so a contested extension always resolves the same way.
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		info := langs[name]
		for _, ext := range info.Extensions {
			lower := strings.ToLower(ext)
			if _, taken := extToLang[lower]; !taken {
				extToLang[lower] = name
			}
		}
		for _, fname := range info.Filenames {
			if _, taken := fnameToLang[fname]; !taken {
				fnameToLang[fname] = name
			}
		}
	}
}

// languageForFile returns the display language for a path, or "" when
// unknown. Exact filename matches take precedence over extensions.
func languageForFile(path string) string {
	langOnce.Do(loadLanguages)
	base := filepath.Base(path)
	if lang, ok := fnameToLang[base]; ok {
		return lang
	}
	if ext := strings.ToLower(filepath.Ext(base)); ext != "" {
		if lang, ok := extToLang[ext]; ok {
			return lang
		}
	}
	return ""
}
