// Package api carries the OpenAPI description of the HTTP surface.
package api

import _ "embed"

// OpenAPI is docs/api/openapi.yaml as compiled into the binary.
//
//go:embed openapi.yaml
var OpenAPI []byte
