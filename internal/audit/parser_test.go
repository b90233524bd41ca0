package audit

import "testing"

func TestParseVulnerability(t *testing.T) {
	output := "    Fetching advisory database from `https://github.com/RustSec/advisory-db.git`\n" +
		"      Loaded 776 security advisories (from /Users/user/.cargo/advisory-db)\n" +
		"    Scanning package-lock.oriz for vulnerabilities (100 package dependencies)\n" +
		"Crate:     crossbeam-channel\n" +
		"Version:   0.5.13\n" +
		"Title:     crossbeam-channel: double free on Drop\n" +
		"Date:      2025-04-08\n" +
		"ID:        RUSTSEC-2025-0024\n" +
		"URL:       https://rustsec.org/advisories/RUSTSEC-2025-0024\n" +
		"Solution:  Upgrade to >=0.5.15\n" +
		"Dependency tree:\n" +
		"crossbeam-channel 0.5.13\n" +
		"├── tame-index 0.14.0\n" +
		"│   └── rustsec 0.30.0\n" +
		"│       └── my-app 0.1.0\n" +
		"└── gix 0.70.0\n" +
		"    └── cargo 0.88.0\n" +
		"        └── my-app 0.1.0\n" +
		"\n" +
		"error: 1 vulnerability found!"

	result := Parse(output, []string{"my-app"})
	if len(result) != 1 {
		t.Fatalf("expected 1 crate with issues, got %d", len(result))
	}

	issues, ok := result["crossbeam-channel"]
	if !ok || len(issues) != 1 {
		t.Fatalf("expected one issue for crossbeam-channel, got %v", issues)
	}

	issue := issues[0]
	if issue.PackageName != "crossbeam-channel" || issue.Version != "0.5.13" {
		t.Errorf("unexpected package/version: %+v", issue)
	}
	if issue.Title != "crossbeam-channel: double free on Drop" {
		t.Errorf("unexpected title: %q", issue.Title)
	}
	if issue.ID != "RUSTSEC-2025-0024" {
		t.Errorf("unexpected id: %q", issue.ID)
	}
	if issue.URL != "https://rustsec.org/advisories/RUSTSEC-2025-0024" {
		t.Errorf("unexpected url: %q", issue.URL)
	}
	if issue.Solution != "Upgrade to >=0.5.15" {
		t.Errorf("unexpected solution: %q", issue.Solution)
	}
	if !issue.IsVulnerability() {
		t.Error("expected IsVulnerability true")
	}
}

func TestParseWarning(t *testing.T) {
	output := "Crate:     tokio\n" +
		"Version:   1.44.1\n" +
		"Warning:   unsound\n" +
		"Title:     Broadcast channel calls clone in parallel, but does not require `Sync`\n" +
		"Date:      2025-04-07\n" +
		"ID:        RUSTSEC-2025-0023\n" +
		"URL:       https://rustsec.org/advisories/RUSTSEC-2025-0023\n" +
		"Dependency tree:\n" +
		"tokio 1.44.1\n" +
		"└── my-app 0.1.0\n" +
		"\n" +
		"warning: 1 warning found"

	result := Parse(output, []string{"my-app"})
	issues, ok := result["tokio"]
	if !ok || len(issues) != 1 {
		t.Fatalf("expected one issue for tokio, got %v", issues)
	}

	issue := issues[0]
	if issue.IsVulnerability() {
		t.Error("expected a warning, not a vulnerability")
	}
	if issue.WarningType != "unsound" {
		t.Errorf("expected warning type unsound, got %q", issue.WarningType)
	}
}

func TestParseWithSeverity(t *testing.T) {
	output := "Crate:     gix-features\n" +
		"Version:   0.38.2\n" +
		"Title:     SHA-1 collision attacks are not detected\n" +
		"ID:        RUSTSEC-2025-0021\n" +
		"URL:       https://rustsec.org/advisories/RUSTSEC-2025-0021\n" +
		"Severity:  6.8 (medium)\n" +
		"Solution:  Upgrade to >=0.41.0"

	result := Parse(output, nil)
	issues, ok := result["gix-features"]
	if !ok || len(issues) != 1 {
		t.Fatalf("expected one issue for gix-features, got %v", issues)
	}
	if issues[0].Severity != "6.8 (medium)" {
		t.Errorf("unexpected severity: %q", issues[0].Severity)
	}
}

// TestTreeDepthHeuristicFixedIndent pins the indent/4+1 depth heuristic
// against a literal fixture, since it silently misattributes dependency
// paths if orizon-pkg ever changes its tree-drawing indent width.
func TestTreeDepthHeuristicFixedIndent(t *testing.T) {
	output := "Crate:     crossbeam-channel\n" +
		"Version:   0.5.13\n" +
		"Title:     double free\n" +
		"ID:        RUSTSEC-2025-0024\n" +
		"Dependency tree:\n" +
		"crossbeam-channel 0.5.13\n" +
		"├── tame-index 0.14.0\n" +
		"│   └── rustsec 0.30.0\n" +
		"│       └── my-app 0.1.0\n" +
		"└── gix 0.70.0\n" +
		"    └── cargo 0.88.0\n" +
		"        └── my-app 0.1.0"

	result := Parse(output, []string{"my-app"})
	issue := result["crossbeam-channel"][0]

	// The tree is a reverse-dependency listing (who depends on the
	// vulnerable crate); the attribution key is the package immediately
	// above the workspace member in each branch - "rustsec" and "cargo" -
	// not the crate directly under the vulnerable package.
	if _, ok := issue.DependencyPaths["rustsec"]; !ok {
		t.Errorf("expected a dependency path attributed to rustsec, got %v", issue.DependencyPaths)
	}
	if _, ok := issue.DependencyPaths["cargo"]; !ok {
		t.Errorf("expected a dependency path attributed to cargo, got %v", issue.DependencyPaths)
	}
}
