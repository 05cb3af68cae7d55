package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSON binds and validates a request body. On any violation every field
// message is aggregated into a single 400 response and the handler never runs.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		RespondBadRequest(ctx, bindErrorMessage(err, out))

		return false
	}

	return true
}

func bindErrorMessage(err error, out interface{}) string {
	rootType := baseStructType(out)

	// validator errors (struct binding tags)

	var validatorError validator.ValidationErrors

	if errors.As(err, &validatorError) {
		msgs := make([]string, 0, len(validatorError))

		for _, fieldError := range validatorError {
			field := jsonFieldName(rootType, fieldError)
			msgs = append(msgs, field+" "+validationMessage(fieldError.Tag(), fieldError.Param()))
		}
		return strings.Join(msgs, ", ")
	}

	// in the event of bad json

	var syntaxError *json.SyntaxError

	if errors.As(err, &syntaxError) {
		return "Invalid JSON in request body"
	}

	// in the event of a type mismatch

	var unmatchedTypeError *json.UnmarshalTypeError

	if errors.As(err, &unmatchedTypeError) {
		field := unmatchedTypeError.Field
		if field == "" {
			field = "body"
		}
		return fmt.Sprintf("%s must be of type %s", field, unmatchedTypeError.Type.String())
	}

	return "Invalid request body"
}

func baseStructType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t != nil && t.Kind() == reflect.Struct {
		return t
	}

	return nil
}

// jsonFieldName maps a validator field back to its json tag name so error
// messages talk about "firstName", not "FirstName".
func jsonFieldName(rootType reflect.Type, fieldError validator.FieldError) string {
	name := fieldError.Field()

	if rootType == nil {
		return name
	}

	sf, ok := rootType.FieldByName(fieldError.StructField())
	if !ok {
		return name
	}

	tag := sf.Tag.Get("json")
	if tag == "" {
		return name
	}

	jsonName, _, _ := strings.Cut(tag, ",")
	if jsonName == "" || jsonName == "-" {
		return name
	}

	return jsonName
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param + " characters"
	case "max":
		return "cannot exceed " + param + " characters"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
