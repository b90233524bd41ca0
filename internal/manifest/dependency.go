package manifest

// TableKind is one of the three dependency tables a package.oriz manifest
// recognizes.
type TableKind int

const (
	TableNormal TableKind = iota
	TableDev
	TableBuild
)

// Style is how a dependency was declared: a bare version string, or a table
// with named fields.
type Style int

const (
	StyleSimple Style = iota
	StyleTable
)

// FieldKind names a recognized table-dependency field.
type FieldKind int

const (
	FieldVersion FieldKind = iota
	FieldGit
	FieldBranch
	FieldTag
	FieldRev
	FieldPath
	FieldWorkspace
	FieldRegistry
	FieldPackage
	FieldDefaultFeatures
	FieldOptional
)

// FieldValue is one recognized field of a table-style dependency.
type FieldValue struct {
	NodeID string
	Text   string
}

// FeatureEntry is one element of a dependency's features array.
type FeatureEntry struct {
	NodeID string
	Text   string
}

// Dependency is the semantic view of one declared dependency.
type Dependency struct {
	ID           string // same dotted path as its root node, e.g. "dependencies.serde"
	Name         string // declared name (the table key)
	Table        TableKind
	Style        Style
	Platform     string // e.g. "cfg(windows)"; empty if unqualified
	Workspace    bool   // true under workspace.dependencies
	NameKeyNode  string // node id of the name-key
	EntryNode    string // node id of the whole entry (value or inline table)
	Fields       map[FieldKind]FieldValue
	Features     []FeatureEntry
}

// PackageName returns the resolved package identity: the "package" rename
// field if present, otherwise the declared name.
func (d *Dependency) PackageName() string {
	if fv, ok := d.Fields[FieldPackage]; ok && fv.Text != "" {
		return fv.Text
	}
	return d.Name
}
