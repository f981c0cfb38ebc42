// Package store loads and persists the configuration of an Allons-y! project.
//
// A project keeps its configuration in three files at its root: the rc record
// (.allonsyrc, JSON) holding the version and the install answers, the package
// descriptor (package.json) and the environment file (.env). Load merges the
// three into one Configuration; Save, WritePackage and WriteEnv each write back
// the part that belongs to their file and nothing else.
package store
