package secscan

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Violation records a single policy hit. Path is relative to the
// scanned root.
type Violation struct {
	Path   string
	Rule   string
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Path, v.Rule, v.Detail)
}

// Verify walks root and returns every policy violation found. An empty
// slice means the tree is safe to publish. Scanning never mutates the
// tree; the .git directory is skipped because it is not part of the
// published tree.
func Verify(root string, policy Policy) ([]Violation, error) {
	var violations []Violation

	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		name := entry.Name()

		if entry.IsDir() {
			if name == ".git" {
				return filepath.SkipDir
			}
			for _, deny := range policy.DirectoryNames {
				if strings.EqualFold(name, deny) {
					violations = append(violations, Violation{
						Path:   filepath.ToSlash(rel),
						Rule:   "forbidden directory",
						Detail: fmt.Sprintf("directory name %q is never publishable", deny),
					})
					return filepath.SkipDir
				}
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			violations = append(violations, Violation{
				Path:   filepath.ToSlash(rel),
				Rule:   "irregular file",
				Detail: "only regular files may be published",
			})
			return nil
		}

		if rule, glob := matchGlobs(name, policy); rule != "" {
			violations = append(violations, Violation{
				Path:   filepath.ToSlash(rel),
				Rule:   rule,
				Detail: fmt.Sprintf("filename matches %q", glob),
			})
			return nil
		}

		hit, err := scanContents(p, entry, policy)
		if err != nil {
			return err
		}
		violations = append(violations, relocate(hit, rel)...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("security scan of %s: %w", root, err)
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Path != violations[j].Path {
			return violations[i].Path < violations[j].Path
		}
		return violations[i].Rule < violations[j].Rule
	})
	return violations, nil
}

func matchGlobs(name string, policy Policy) (rule, glob string) {
	lower := strings.ToLower(name)
	for _, g := range policy.CredentialGlobs {
		if ok, _ := path.Match(g, lower); ok {
			return "credential filename", g
		}
	}
	for _, g := range policy.ToolingGlobs {
		if ok, _ := path.Match(g, lower); ok {
			return "build tooling", g
		}
	}
	return "", ""
}

func scanContents(p string, entry fs.DirEntry, policy Policy) ([]Violation, error) {
	info, err := entry.Info()
	if err != nil {
		return nil, err
	}
	if info.Size() > policy.MaxScanBytes {
		return nil, nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, nil
	}

	var violations []Violation
	for _, rule := range policy.ContentRules {
		for _, needle := range rule.Substrings {
			if bytes.Contains(data, []byte(needle)) {
				violations = append(violations, Violation{
					Rule:   rule.Description,
					Detail: fmt.Sprintf("contents contain %q", needle),
				})
				break
			}
		}
	}
	return violations, nil
}

func relocate(violations []Violation, rel string) []Violation {
	for i := range violations {
		violations[i].Path = filepath.ToSlash(rel)
	}
	return violations
}
