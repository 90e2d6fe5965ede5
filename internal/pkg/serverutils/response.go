package serverutils

import "github.com/gofiber/fiber/v2"

type BaseResponse[T any] struct {
	Message    string `json:"message"`
	Data       T      `json:"data"`
	StatusCode int    `json:"status_code"`
}

func NewResponse[T any](statusCode int, message string, data T) *BaseResponse[T] {
	return &BaseResponse[T]{
		Message:    message,
		Data:       data,
		StatusCode: statusCode,
	}
}

func SuccessResponse[T any](message string, data T) *BaseResponse[T] {
	return NewResponse(fiber.StatusOK, message, data)
}

func ErrorResponse(statusCode int, message string) *BaseResponse[any] {
	return NewResponse[any](statusCode, message, nil)
}

// Respond writes the envelope with a matching HTTP status.
func Respond[T any](ctx *fiber.Ctx, statusCode int, message string, data T) error {
	return ctx.Status(statusCode).JSON(NewResponse(statusCode, message, data))
}
