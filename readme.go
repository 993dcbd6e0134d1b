// Package davicalcmdlnut carries the files installed alongside the
// davical-cmdlnutl command.
package davicalcmdlnut

import _ "embed"

// README is the user documentation installed to the documentation directory.
//
//go:embed README
var README string
