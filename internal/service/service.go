package service

// Validator checks an input against its schema. validation.Validator and any
// echo.Validator satisfy it.
type Validator interface {
	Validate(i interface{}) error
}
