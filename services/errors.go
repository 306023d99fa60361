package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrConflict      = errors.New("already exists")
	ErrDataIntegrity = errors.New("data integrity violation")
)

// NotFoundError names the entity that could not be loaded.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError reports a violated unique key by its field labels.
type ConflictError struct {
	Entity string
	Fields []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with this %s already exists.", e.Entity, joinLabels(e.Fields))
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// IntegrityError is raised when stored rows break a ledger invariant.
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string {
	return "data integrity violation: " + e.Reason
}

func (e *IntegrityError) Is(target error) bool { return target == ErrDataIntegrity }

// "A", "A and B", "A, B and C"
func joinLabels(labels []string) string {
	switch len(labels) {
	case 0:
		return "value"
	case 1:
		return labels[0]
	}
	return strings.Join(labels[:len(labels)-1], ", ") + " and " + labels[len(labels)-1]
}

// UniqueKey describes the unique constraint an entity is checked against.
type UniqueKey struct {
	Entity string
	Fields []string
}

// Uniqueness rules per entity.
var (
	CustomerKey              = UniqueKey{"Customer", []string{"Last name", "First name", "UBA"}}
	MenuItemKey              = UniqueKey{"Menu item", []string{"Name"}}
	MenuItemCategoryKey      = UniqueKey{"Menu item category", []string{"Name"}}
	InventoryItemKey         = UniqueKey{"Inventory item", []string{"Name"}}
	InventoryItemCategoryKey = UniqueKey{"Inventory item category", []string{"Name"}}
	ComponentKey             = UniqueKey{"Component", []string{"Item", "Ingredient"}}
	UserKey                  = UniqueKey{"User", []string{"Email"}}
	OpenTabKey               = UniqueKey{"Open tab", []string{"Customer"}}
	TabKey                   = UniqueKey{Entity: "Tab"}
	PurchaseKey              = UniqueKey{Entity: "Purchase"}
)

// TranslateDBError maps GORM errors onto the service taxonomy. id is the looked-up
// primary key, used only for not-found messages.
func TranslateDBError(err error, key UniqueKey, id uint) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &NotFoundError{Entity: key.Entity, ID: id}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &ConflictError{Entity: key.Entity, Fields: key.Fields}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return NewValidationError(strings.ToLower(key.Entity), "is still referenced or references a missing row")
	}
	return err
}
