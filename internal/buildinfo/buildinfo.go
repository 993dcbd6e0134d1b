package buildinfo

import (
	"fmt"
	"os"
	"path/filepath"

	davicalcmdlnut "github.com/ledeuns/davical-cmdlnut"
)

// Packaging metadata for the davical-cmdlnutl command.
const (
	Name        = "davical-cmdlnutl"
	Author      = "Jason Alavaliant"
	AuthorEmail = "alavaliant@gmail.com"
	URL         = "http://davical-cmdlnut.sourceforge.net/"
	Description = "Command line administration utility for interacting with a davical database"
	License     = "GPL"
	Platforms   = "any"

	// DocDir is where the README is installed.
	DocDir = "/usr/share/doc/davical-cmdlnut/"
	// DocFile is the installed name of the documentation file.
	DocFile = "README"
)

// Version is overridden at link time with -X.
var Version = "1.2.1"

// Info describes the installed package.
type Info struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Author      string `json:"author" yaml:"author"`
	AuthorEmail string `json:"author_email" yaml:"author_email"`
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description" yaml:"description"`
	License     string `json:"license" yaml:"license"`
	Platforms   string `json:"platforms" yaml:"platforms"`
}

// Get returns the package metadata.
func Get() Info {
	return Info{
		Name:        Name,
		Version:     Version,
		Author:      Author,
		AuthorEmail: AuthorEmail,
		URL:         URL,
		Description: Description,
		License:     License,
		Platforms:   Platforms,
	}
}

// ProdID is the iCalendar PRODID used for generated calendars.
func ProdID() string {
	return fmt.Sprintf("-//%s//%s//EN", Name, Version)
}

// README returns the embedded documentation.
func README() string {
	return davicalcmdlnut.README
}

// InstallDoc writes the README into dir and returns the written path.
// An empty dir selects DocDir.
func InstallDoc(dir string) (string, error) {
	if dir == "" {
		dir = DocDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create doc dir: %w", err)
	}
	dst := filepath.Join(dir, DocFile)
	if err := os.WriteFile(dst, []byte(davicalcmdlnut.README), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	return dst, nil
}
