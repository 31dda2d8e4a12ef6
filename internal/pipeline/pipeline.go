// Package pipeline executes admin mutations as a single unit of work:
// the entity write and its audit trail either both commit or neither
// does. Authentication, authorization, validation and sanitization run
// before a mutation reaches Execute; any failure there means Execute is
// never called and no side effect occurs.
package pipeline

import (
	"errors"

	"gorm.io/gorm"

	"github.com/chirofind/chirofind/internal/db/controller/audit"
	"github.com/chirofind/chirofind/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Outcome describes one mutated entity: its identifier and the snapshots
// taken immediately before and after the storage call. Before is nil for
// create, After is nil for permanent delete.
type Outcome struct {
	EntityID uint64
	Before   any
	After    any
}

// MutateFunc performs the storage change inside the transaction and
// returns an Outcome per mutated entity. Bulk operations return several.
type MutateFunc func(tx *gorm.DB) ([]Outcome, error)

// Request identifies who performs which action on which entity type.
type Request struct {
	Actor      *models.User
	Action     string
	EntityType string
	Origin     audit.Origin
}

// Execute runs the mutation and appends one audit entry per outcome in
// the same transaction. A failing audit append rolls the mutation back:
// no change is durable without its trail.
func Execute(db *gorm.DB, req Request, fn MutateFunc) ([]Outcome, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var outcomes []Outcome

	err := db.Transaction(func(tx *gorm.DB) error {
		out, err := fn(tx)
		if err != nil {
			return err
		}

		outcomes = out

		var actorID *uint64

		if req.Actor != nil {
			id := req.Actor.ID
			actorID = &id
		}

		for _, o := range out {
			err := audit.Record(tx, actorID, req.Action, req.EntityType, o.EntityID, o.Before, o.After, req.Origin)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return outcomes, nil
}

// ExecuteOne is Execute for the common single-entity case.
func ExecuteOne(db *gorm.DB, req Request, fn func(tx *gorm.DB) (Outcome, error)) (*Outcome, error) {
	outcomes, err := Execute(db, req, func(tx *gorm.DB) ([]Outcome, error) {
		o, err := fn(tx)
		if err != nil {
			return nil, err
		}

		return []Outcome{o}, nil
	})
	if err != nil {
		return nil, err
	}

	return &outcomes[0], nil
}
