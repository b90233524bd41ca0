package audit

import (
	"regexp"
	"strings"
)

var (
	treeLineRe = regexp.MustCompile(`^([│\s]*)(?:├──|└──)\s*(\S+)\s+(\S+)`)
	rootLineRe = regexp.MustCompile(`^([a-zA-Z0-9_-]+)\s+(\S+)$`)
)

// Parse reads the text output of "orizon-pkg audit" and groups the issues
// it reports by package name, mirroring parser.rs's parse_audit_output
// exactly: a small state machine over "Crate:"-delimited blocks, with a
// nested tree-mode sub-parser triggered by "Dependency tree:" that uses an
// indent/4 depth heuristic to reconstruct the path from the vulnerable
// package back up to each workspace member.
func Parse(stdout string, workspaceMembers []string) map[string][]*Issue {
	memberSet := make(map[string]bool, len(workspaceMembers))
	for _, m := range workspaceMembers {
		memberSet[m] = true
	}

	issues := make(map[string][]*Issue)
	var current *Issue
	parsingTree := false
	var currentPath []string

	save := func() {
		if current == nil {
			return
		}
		if current.PackageName != "" {
			issues[current.PackageName] = append(issues[current.PackageName], current)
		}
		current = nil
	}

	for _, line := range strings.Split(stdout, "\n") {
		if strings.HasPrefix(line, " ") && !parsingTree {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Crate:"):
			parsingTree = false
			save()
			current = &Issue{DependencyPaths: make(map[string][]string)}
			if _, value, ok := cutColon(line); ok {
				current.PackageName = strings.TrimSpace(value)
			}
			continue

		case hasAnyPrefix(line, "Version:", "Title:", "ID:", "URL:", "Solution:", "Warning:", "Severity:"):
			if current != nil {
				if key, value, ok := cutColon(line); ok {
					key = strings.TrimSpace(key)
					value = strings.TrimSpace(value)
					switch key {
					case "Version":
						current.Version = value
					case "Title":
						current.Title = value
					case "ID":
						current.ID = value
					case "URL":
						current.URL = value
					case "Solution":
						current.Solution = value
					case "Warning":
						current.Kind = KindWarning
						current.WarningType = value
					case "Severity":
						current.Severity = value
					}
				}
			}
			continue

		case strings.HasPrefix(line, "Dependency tree:"):
			parsingTree = true
			currentPath = nil
			continue
		}

		if parsingTree {
			trimmed := strings.TrimSpace(line)
			if m := rootLineRe.FindStringSubmatch(trimmed); m != nil {
				pkgName, pkgVersion := m[1], m[2]
				if pkgName != "" {
					currentPath = append(currentPath, pkgName+" "+pkgVersion)
				}
			} else if m := treeLineRe.FindStringSubmatch(line); m != nil {
				indent := len([]rune(m[1]))
				pkgName, pkgVersion := m[2], m[3]

				depth := indent/4 + 1
				if depth < len(currentPath) {
					currentPath = currentPath[:depth]
				}

				if memberSet[pkgName] && len(currentPath) > 0 {
					parent := currentPath[len(currentPath)-1]
					if parentName := firstField(parent); parentName != "" && current != nil {
						pathCopy := append([]string(nil), currentPath...)
						current.DependencyPaths[parentName] = pathCopy
					}
				}

				currentPath = append(currentPath, pkgName+" "+pkgVersion)
			}
			continue
		}
	}

	save()
	return issues
}

func cutColon(line string) (before, after string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	return line[:idx], line[idx+1:], true
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
