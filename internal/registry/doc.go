// Package registry discovers the features of a project. A Locator walks
// the features directory in lexical order and hands every matching file to
// a Loader; the resulting order is the order features run in.
package registry
