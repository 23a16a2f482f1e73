// Package platform wraps the filesystem calls conrad needs to manage links in
// a run directory: creating and removing symbolic links and classifying the
// entry that currently occupies a name.
package platform
