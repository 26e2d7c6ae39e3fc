// Package templates embeds the HTML assets shipped with the server binary.
package templates

import _ "embed"

//go:embed report.html
var ReportHTML string
