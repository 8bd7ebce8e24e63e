// Package parse extracts structured data from assistant replies. Models
// frequently wrap JSON in markdown code fences or emit slightly malformed
// JSON (single quotes, trailing commas, unquoted keys), so [As] strips fences
// and applies automatic JSON repair before giving up with an error.
package parse
