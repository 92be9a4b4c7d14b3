package models

import "encoding/json"

// CatalogSide identifies which catalog a record came from
type CatalogSide string

const (
	CatalogSideSource CatalogSide = "source" // the catalog a match request originates from
	CatalogSideTarget CatalogSide = "target" // the catalog searched for candidates
)

// ProductRecord is a loosely-structured product document as returned by a
// catalog. No schema is enforced; different catalogs nest the same concept
// (brand, identifiers, dimensions) under different paths, and matchers probe
// the known paths for each side. Records are read-only once handed to the
// matching engine.
type ProductRecord map[string]any

// ParseProductRecord decodes a raw JSON document into a ProductRecord
func ParseProductRecord(data json.RawMessage) (ProductRecord, error) {
	var record ProductRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// JSON encodes the record back to raw JSON
func (r ProductRecord) JSON() json.RawMessage {
	b, _ := json.Marshal(r)
	return b
}
