package booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrBookingPast       = errors.New("this booking has already passed")
	ErrCustomerInactive  = errors.New("customer is inactive")
	ErrInvalidCustomerID = errors.New("invalid customer id")
)

// Поля, к которым привязываются ошибки валидации.
const (
	FieldService   = "service"
	FieldTime      = "time"
	FieldDate      = "date"
	FieldBreedSize = "breed_size"
	FieldName      = "name"
)

const (
	MsgRequired             = "This field is required."
	MsgServiceInactiveNew   = "This service is not active and cannot be booked. Please choose a different service."
	MsgServiceInactiveEdit  = "This service is not active and cannot be selected. Please choose a different service."
	MsgTimeNotChoice        = "This time is not available. Please choose an available slot between 06:00 and 19:00."
	MsgTimeClash            = "This time slot is already booked. Please choose a different time."
	MsgTimePassed           = "This time has passed or is no longer available. Please choose a later slot."
	MsgBreedSizeInvalid     = "Select a valid choice. That choice is not one of the available choices."
	MsgServiceNameDuplicate = "A service with this name already exists."
)

type FieldError struct {
	Field   string
	Message string
}

// ValidationError собирает все ошибки проверки, сгруппированные по полям.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

func (e *ValidationError) Has(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Messages возвращает сообщения для поля в порядке добавления.
func (e *ValidationError) Messages(field string) []string {
	var out []string
	for _, fe := range e.Errors {
		if fe.Field == field {
			out = append(out, fe.Message)
		}
	}
	return out
}

// ByField — ошибки в виде field -> messages.
func (e *ValidationError) ByField() map[string][]string {
	out := make(map[string][]string)
	for _, fe := range e.Errors {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return out
}

func (e *ValidationError) errOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// HasFieldError сообщает, содержит ли err ошибку валидации поля field.
func HasFieldError(err error, field string) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Has(field)
}

// IsUniqueViolation распознаёт нарушение уникального индекса.
// С TranslateError драйверы отдают gorm.ErrDuplicatedKey, текст — запасной вариант.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}

// проигравший гонку за слот получает ту же ошибку, что и при обычной проверке
func translateSlotConflict(err error) error {
	if IsUniqueViolation(err) {
		return NewFieldError(FieldTime, MsgTimeClash)
	}
	return err
}

// MapNotFound превращает gorm.ErrRecordNotFound в ErrNotFound с указанием сущности.
func MapNotFound(err error, entity string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return err
}
