// Package schema maps Go structs to vector-database collection definitions
// and resolves typed column references to column names.
//
// Fields are described with `milvus` struct tags:
//
//	type Document struct {
//	    ID        int64     `milvus:"name:doc_id,primary"`
//	    Tenant    string    `milvus:"partitionKey,maxLength:64"`
//	    Title     string    `milvus:"desc:document title"`
//	    Meta      map[string]any
//	    Embedding []float32 `milvus:"dim:768,index,metric:IP"`
//	    internal  string
//	}
//
// Untagged exported fields are mapped to snake_case names with a type
// inferred from the Go kind; `milvus:"-"` skips a field. Every collection
// needs exactly one primary key, and at most one Int64 or VarChar partition
// key that is not the primary key.
//
// Column tokens give filter builders refactor-safe column references:
//
//	title := schema.Field(func(d *Document) any { return &d.Title })
//	name, err := schema.Resolve(schema.Default(), title) // "title"
//
// Definitions are built once per type, on first registration or first use,
// and the first registration wins. Resolved column names are cached per
// (type, token) in an append-only map that is safe for concurrent readers.
package schema
