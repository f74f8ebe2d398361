// Package prof declares Profiles Vocabulary namespace terms. The YAML
// profile descriptors use the bare field names; no other package
// imports these constants.
package prof

// Namespace is the Profiles Vocabulary base IRI.
const Namespace = "http://www.w3.org/ns/dx/prof/"

// Terms used by profile descriptors.
const (
	HasToken            = Namespace + "hasToken"
	IsProfileOf         = Namespace + "isProfileOf"
	IsTransitiveProfileOf = Namespace + "isTransitiveProfileOf"
)
