package output

// SchemaVersion is the NDJSON output schema version. Bump on breaking
// changes to the output contract so agents can detect incompatibility.
const SchemaVersion = 1
