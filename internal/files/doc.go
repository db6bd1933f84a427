// Package files locates raw Everion stream exports inside a device export
// directory by filename pattern.
//
// Each of the seven known stream names is matched with a *<name>* glob.
// A stream with no match is simply absent; a stream with several matches
// is ambiguous and also treated as absent, with a warning either way.
package files
