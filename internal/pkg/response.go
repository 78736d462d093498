package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/inkwell/internal/domain"
)

// Response is the JSON envelope of every API response.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ValidationErrorResponse reports which request fields failed validation.
type ValidationErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// Success sends 200 with data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

// Created sends 201 with data.
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: message,
		Data:    data,
	})
}

// Error sends err with the status of its domain code. Only the AppError message
// reaches the client; a server-side failure is logged with its cause.
func Error(c *gin.Context, err error) {
	status := domain.HTTPStatusCode(err)

	var appErr *domain.AppError
	msg := "internal error"
	if errors.As(err, &appErr) && status < http.StatusInternalServerError {
		msg = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "api request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
	}

	c.JSON(status, Response{Code: status, Message: msg})
}

// List sends one page of a listing. X-Total-Count carries the size of the whole
// set and Link the URLs of the neighbouring pages.
func List[T any](c *gin.Context, result *domain.PageResult[T]) {
	if result == nil {
		result = &domain.PageResult[T]{}
	}
	c.Header("X-Total-Count", strconv.FormatInt(result.Total, 10))
	if link := pageLinks(c.Request.URL, result.Page, result.HasPrev(), result.HasNext()); link != "" {
		c.Header("Link", link)
	}
	Success(c, result)
}

func pageLinks(u *url.URL, page int, hasPrev, hasNext bool) string {
	var links []string
	rel := func(p int, name string) {
		q := u.Query()
		q.Set("page", strconv.Itoa(p))
		links = append(links, fmt.Sprintf(`<%s?%s>; rel="%s"`, u.Path, q.Encode(), name))
	}
	if hasPrev {
		rel(page-1, "prev")
	}
	if hasNext {
		rel(page+1, "next")
	}
	return strings.Join(links, ", ")
}

// ValidationError sends 400 with per-field messages when err comes from the
// validator, or with err's text otherwise.
func ValidationError(c *gin.Context, err error) {
	validationErrorWithType(c, err, nil)
}

// BindAndValidate binds the request into obj. On failure it has already sent
// the 400 response and returns false:
//
//	if !pkg.BindAndValidate(c, &req) { return }
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		validationErrorWithType(c, err, obj)
		return false
	}
	return true
}

func validationErrorWithType(c *gin.Context, err error, obj any) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, Response{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Code:    http.StatusBadRequest,
		Message: "validation error",
		Errors:  FieldErrors(ve, obj),
	})
}

// FieldErrors maps each failed field to a readable message, keyed by the
// field's JSON name when obj is the bound struct.
func FieldErrors(ve validator.ValidationErrors, obj any) map[string]string {
	jsonTags := buildJSONTagMap(obj)
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fieldName(fe, jsonTags)] = fieldMessage(fe)
	}
	return out
}

func fieldName(fe validator.FieldError, jsonTags map[string]string) string {
	if name, ok := jsonTags[fe.StructField()]; ok {
		return name
	}
	return strings.ToLower(fe.Field())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	}
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}
	return fe.Tag()
}

// buildJSONTagMap maps struct field names of obj to their JSON names. It is
// empty unless obj is a struct or a pointer to one.
func buildJSONTagMap(obj any) map[string]string {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	m := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if name := parseJSONTagName(f.Tag.Get("json")); name != "" {
			m[f.Name] = name
		}
	}
	return m
}

func parseJSONTagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}
