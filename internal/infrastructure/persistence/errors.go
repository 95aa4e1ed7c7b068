package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/trucklot/backend/internal/domain/lot"
	"github.com/trucklot/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ErrInvalidReference is returned when a write points at a customer, truck
// or invoice that does not exist.
var ErrInvalidReference = shared.NewDomainError("INVALID_REFERENCE", "Referenced record does not exist")

const overlapMessage = "Overlapping active contract for same truck"

// translateError maps SQLite constraint failures to domain errors and wraps
// anything else with op.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if strings.Contains(err.Error(), overlapMessage) {
		return lot.ErrContractOverlap
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return shared.NewDomainError(shared.ErrAlreadyExists.Code, uniqueMessage(sqliteErr.Error()))
		case sqlite3.ErrConstraintForeignKey:
			return ErrInvalidReference
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return shared.InvalidInputf("Value rejected by the database: %s", sqliteErr.Error())
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func uniqueMessage(detail string) string {
	switch {
	case strings.Contains(detail, "trucks.plate"):
		return "A truck with this plate already exists."
	case strings.Contains(detail, "idx_customers_name_nocase"), strings.Contains(detail, "customers"):
		return "A customer with this name already exists."
	default:
		return "Record already exists."
	}
}
