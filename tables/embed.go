// Package tables ships the default diagnosis rule tables as embedded
// JSON. They cover the common clinical cases; deployments with their
// own curated data load it through ruletable.Loader instead and never
// touch this package.
package tables

import (
	"embed"
	"fmt"

	"github.com/rs/zerolog"

	dx "github.com/godental/diagnostics"
	"github.com/godental/diagnostics/ruletable"
)

//go:embed defaults/*.json
var defaultsFS embed.FS

// fileFor maps each family to its embedded document.
var fileFor = map[dx.Family]string{
	dx.FamilyCaries:      "defaults/caries.json",
	dx.FamilyEndodontic:  "defaults/endodontic.json",
	dx.FamilyHeat:        "defaults/heat.json",
	dx.FamilyPeriodontal: "defaults/periodontal.json",
}

// Load builds the default table for one family.
func Load(family dx.Family, loader *ruletable.Loader) (*ruletable.Table, error) {
	path, ok := fileFor[family]
	if !ok {
		return nil, fmt.Errorf("no default table for family %q", family)
	}
	return loader.LoadFS(defaultsFS, path)
}

// LoadAll builds the default tables for every family.
func LoadAll(loader *ruletable.Loader) ([]*ruletable.Table, error) {
	out := make([]*ruletable.Table, 0, len(fileFor))
	for _, family := range dx.Families() {
		table, err := Load(family, loader)
		if err != nil {
			return nil, err
		}
		out = append(out, table)
	}
	return out, nil
}

// DefaultStore builds a store with every default table published. The
// common entry point for applications that use the shipped data.
func DefaultStore() (*ruletable.Store, error) {
	return DefaultStoreWithLogger(zerolog.Nop())
}

// DefaultStoreWithLogger is DefaultStore with loader/store logging.
func DefaultStoreWithLogger(logger zerolog.Logger) (*ruletable.Store, error) {
	loader := ruletable.NewLoader(256, logger)
	loaded, err := LoadAll(loader)
	if err != nil {
		return nil, err
	}
	store := ruletable.NewStore(logger)
	store.Publish(loaded...)
	return store, nil
}
