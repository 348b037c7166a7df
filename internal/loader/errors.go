package loader

import (
	"fmt"

	"jsweave/internal/diag"
)

// Error - провал загрузки, парсинга или трансформации одного юнита.
// Message оформлен так же, как запись в sink: "{location}: {message}".
type Error struct {
	Unit     string
	Code     diag.Code
	Location *diag.Location
	Message  string
	Err      error // исходная причина (например, ошибка Fetch), может быть nil
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// unitError строит ошибку из первой error-диагностики юнита.
func unitError(u *CodeUnit, cause error) *Error {
	d, ok := u.diags.First()
	if !ok {
		return &Error{Unit: u.Name, Code: diag.LoadFailed, Message: fmt.Sprintf("failed to load '%s'", u.Name), Err: cause}
	}
	return &Error{Unit: u.Name, Code: d.Code, Location: d.Location, Message: d.Message, Err: cause}
}
