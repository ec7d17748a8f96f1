// Package service
package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	c "github.com/vatger-pmp/pmp-server/internal/interfaces/config"
	. "github.com/vatger-pmp/pmp-server/internal/interfaces/service"
)

var (
	structValidator *validator.Validate
	cidValidator    *FieldValidator
)

type FieldValidator struct {
	Min, Max          int
	ErrShort, ErrLong *ApiStatus
}

func (v *FieldValidator) CheckInt(value int) *ApiStatus {
	if value > v.Max {
		return v.ErrLong
	}
	if value < v.Min {
		return v.ErrShort
	}
	return nil
}

func InitValidator(config *c.HttpServerLimit) {
	structValidator = validator.New(validator.WithRequiredStructEnabled())
	cidValidator = &FieldValidator{
		Min:      config.CidMin,
		Max:      config.CidMax,
		ErrShort: &ApiStatus{StatusName: "CID_TOO_SHORT", Description: "cid below valid range", HttpCode: BadRequest},
		ErrLong:  &ApiStatus{StatusName: "CID_TOO_LONG", Description: "cid above valid range", HttpCode: BadRequest},
	}
}

// CheckStruct runs the tag-driven validation on a request DTO. The
// first failing field is named in the response so the client knows
// what to fix.
func CheckStruct(req interface{}) *ApiStatus {
	if structValidator == nil {
		return nil
	}
	if err := structValidator.Struct(req); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			return &ApiStatus{
				StatusName:  ErrLackParam.StatusName,
				Description: fmt.Sprintf("missing or invalid parameter: %s", strings.ToLower(fieldErrors[0].Field())),
				HttpCode:    BadRequest,
			}
		}
		return &ErrLackParam
	}
	return nil
}
