// Package schemas embeds the OpenAPI document describing the shelf file API.
package schemas

import _ "embed"

// OpenAPISpec is the raw OpenAPI 3 document served to clients and used by the
// request-validation middleware.
//
//go:embed openapi.yaml
var OpenAPISpec []byte
