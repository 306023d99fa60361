package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/cantina/services"
	"github.com/yeremiapane/cantina/utils"
	"gorm.io/gorm"
)

// CustomError adalah error dengan pesan yang aman ditampilkan ke client
type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

func init() {
	// Pesan validasi pakai nama field JSON, bukan nama field struct
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	}
}

// bindJSON binds the request body and answers 400 with per-field messages when it fails.
// The body is cached so a later validation error can echo it back.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindBodyWith(obj, binding.JSON); err != nil {
		utils.RespondValidation(c, http.StatusBadRequest, fieldErrors(err), echoInput(c))
		return false
	}
	return true
}

func fieldErrors(err error) map[string]string {
	fields := map[string]string{}

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			fields[fe.Field()] = validationMessage(fe)
		}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		fields[typeErr.Field] = "Enter a valid value."
	default:
		fields["body"] = "Invalid JSON: " + err.Error()
	}
	return fields
}

func validationMessage(fe validator.FieldError) string {
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min", "gte":
		if isText {
			return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max", "lte":
		if isText {
			return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "oneof":
		return "Select a valid choice."
	}
	return "Enter a valid value."
}

// echoInput returns the request body as the client sent it.
func echoInput(c *gin.Context) interface{} {
	cached, ok := c.Get(gin.BodyBytesKey)
	if !ok {
		return nil
	}
	raw, _ := cached.([]byte)
	if len(raw) == 0 {
		return nil
	}
	if json.Valid(raw) {
		return json.RawMessage(raw)
	}
	return string(raw)
}

// respondServiceError maps the service error taxonomy onto HTTP status codes.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondValidation(c, http.StatusBadRequest, verr.Fields, echoInput(c))
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrConflict):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrDataIntegrity):
		utils.ErrorLogger.WithField("path", c.Request.URL.Path).Errorf("Ledger integrity check failed: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
	default:
		utils.ErrorLogger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// parseID membaca path param sebagai primary key.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// moneyInput accepts a money value sent either as a JSON number or a string.
type moneyInput string

func (m *moneyInput) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*m = moneyInput(s)
		return nil
	}
	*m = moneyInput(b)
	return nil
}

// parseMoney validates a money field and reports it under the field name.
func parseMoney(field string, raw moneyInput) (decimal.Decimal, error) {
	d, err := utils.ParseMoney(string(raw))
	if err != nil {
		return decimal.Zero, services.NewValidationError(field, err.Error())
	}
	return d, nil
}

// invalidChoice turns a missing referenced row into a field error.
func invalidChoice(field string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return services.NewValidationError(field, "Select a valid choice. That choice is not one of the available choices.")
	}
	return err
}
