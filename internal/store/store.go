// Package store persists generated collections. Every backend implements Sink; the
// pipeline writes one named collection per stage and the summary last.
package store

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/rotisserie/eris"

	"github.com/aegis-locate/aegis-seed/internal/geo"
	"github.com/aegis-locate/aegis-seed/internal/model"
)

// Sink receives whole collections. records is a slice of model entities or, for the
// summary, a single document.
type Sink interface {
	Write(ctx context.Context, name string, records any) error
	Close() error
}

// Collection names written by the pipeline.
const (
	Excavators = "excavators"
	Employees  = "employees"
	Tickets    = "tickets"
	Damages    = "damages"
	Summary    = "_summary"
)

var validName = regexp.MustCompile(`^_?[a-z][a-z0-9_]*$`)

func checkName(name string) error {
	if !validName.MatchString(name) {
		return eris.Errorf("store: invalid collection name %q", name)
	}
	return nil
}

// row is one entity flattened for table-oriented sinks.
type row struct {
	ID   string
	Doc  []byte
	Geom []byte
}

// rowsOf converts records to rows. Model slices yield one row per entity keyed by id
// with the entity's primary geometry; any other value becomes a single row keyed by name.
func rowsOf(name string, records any) ([]row, error) {
	switch rs := records.(type) {
	case []model.Excavator:
		return collect(rs, func(e model.Excavator) (string, geometry) { return e.ID, nil })
	case []model.Employee:
		return collect(rs, func(e model.Employee) (string, geometry) { return e.ID, e.Territory.AssignedGeoFence })
	case []model.Ticket:
		return collect(rs, func(t model.Ticket) (string, geometry) { return t.ID, t.Location })
	case []model.Damage:
		return collect(rs, func(d model.Damage) (string, geometry) { return d.ID, d.Location })
	}

	doc, err := json.Marshal(records)
	if err != nil {
		return nil, eris.Wrapf(err, "store: marshal %s", name)
	}
	return []row{{ID: name, Doc: doc}}, nil
}

type geometry interface {
	EWKB() ([]byte, error)
}

var (
	_ geometry = geo.Point{}
	_ geometry = geo.Polygon{}
)

func collect[T any](items []T, key func(T) (string, geometry)) ([]row, error) {
	out := make([]row, 0, len(items))
	for _, item := range items {
		id, g := key(item)
		doc, err := json.Marshal(item)
		if err != nil {
			return nil, eris.Wrapf(err, "store: marshal %s", id)
		}
		r := row{ID: id, Doc: doc}
		if g != nil {
			if r.Geom, err = g.EWKB(); err != nil {
				return nil, eris.Wrapf(err, "store: encode geometry for %s", id)
			}
		}
		out = append(out, r)
	}
	return out, nil
}
