// Package version reports build information for seqkit binaries: the
// link-time version variables merged with the VCS stamp embedded by the Go
// toolchain. It feeds the seqquery -version flag and the /info endpoint.
package version
