package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for search documents.
//
// Names use the simple analyzer (lowercase, no stemming). Identifier fields
// are keyword-analyzed for exact filtering.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = simple.Name

	docMapping := bleve.NewDocumentMapping()

	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = simple.Name
	nameFieldMapping.Store = true
	nameFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	// Lowercased whole name, for sorting.
	nameKeyFieldMapping := bleve.NewTextFieldMapping()
	nameKeyFieldMapping.Analyzer = keyword.Name
	nameKeyFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("name_key", nameKeyFieldMapping)

	for _, field := range []string{"id", "kind", "genre_type", "genre_ids"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = true
		docMapping.AddFieldMappingsAt(field, fm)
	}

	aliasFieldMapping := bleve.NewTextFieldMapping()
	aliasFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("aliases", aliasFieldMapping)

	updatedAtFieldMapping := bleve.NewNumericFieldMapping()
	updatedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
