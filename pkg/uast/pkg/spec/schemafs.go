// Package spec embeds the JSON schema for serialized AST trees.
package spec

import "embed"

// SchemaFile is the path of the AST schema inside SchemaFS.
const SchemaFile = "ast-schema.json"

// SchemaFS contains the embedded AST JSON schema.
//
//go:embed ast-schema.json
var SchemaFS embed.FS
