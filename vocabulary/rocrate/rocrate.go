// Package rocrate declares the RO-Crate and supporting namespace terms
// and file-name constants the engine looks for on disk.
package rocrate

// SchemaOrg is the schema.org namespace RO-Crate properties live in.
const SchemaOrg = "http://schema.org/"

// DublinCoreTerms is the Dublin Core Terms namespace used by profile
// descriptors for version and license metadata.
const DublinCoreTerms = "http://purl.org/dc/terms/"

const (
	// ConformsTo is the property a crate's root entity uses to declare
	// the profile(s) it conforms to.
	ConformsTo = SchemaOrg + "conformsTo"
	// HasVersion is the Dublin Core Terms predicate profile descriptors
	// use to declare their version.
	HasVersion = DublinCoreTerms + "hasVersion"
)

// Well-known file names and identifiers.
const (
	// MetadataFileName is the RO-Crate metadata document's file name.
	MetadataFileName = "ro-crate-metadata.json"
	// RootID is the default @id of an RO-Crate's root data entity.
	RootID = "./"
	// ProfileDescriptorFileName is the profile descriptor file name
	// within each profile directory.
	ProfileDescriptorFileName = "profile.yaml"
	// ShapesFileName is the SHACL shape file name within each profile
	// directory, expressed in this engine's YAML shape vocabulary.
	ShapesFileName = "shapes.yaml"
	// DefaultProfileToken is the identifier token of the base profile
	// every crate conforms to at minimum.
	DefaultProfileToken = "ro-crate"
)

// IgnoredProfileDirectoryPatterns lists doublestar glob patterns for
// directory entries the Profile Registry skips while scanning a
// profiles directory.
var IgnoredProfileDirectoryPatterns = []string{".*", "__pycache__", "node_modules"}
