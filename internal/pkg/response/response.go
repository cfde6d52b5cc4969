package response

import "github.com/gofiber/fiber/v3"

type DataEnvelope struct {
	Data interface{} `json:"data"`
}

type Meta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

type PageEnvelope struct {
	Data interface{} `json:"data"`
	Meta Meta        `json:"meta"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

func Data(c fiber.Ctx, status int, data interface{}) error {
	return c.Status(normalizeStatus(status)).JSON(DataEnvelope{Data: data})
}

func Page(c fiber.Ctx, status int, data interface{}, total, page, perPage int) error {
	if perPage <= 0 {
		perPage = 1
	}
	totalPages := (total + perPage - 1) / perPage
	return c.Status(normalizeStatus(status)).JSON(PageEnvelope{
		Data: data,
		Meta: Meta{Total: total, Page: page, PerPage: perPage, TotalPages: totalPages},
	})
}

func Error(c fiber.Ctx, status int, code string, message string) error {
	st := normalizeStatus(status)
	if message == "" {
		message = defaultMessageForStatus(st)
	}
	return c.Status(st).JSON(ErrorEnvelope{Error: ErrorBody{Code: code, Message: message}})
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func defaultMessageForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "bad request"
	case fiber.StatusUnauthorized:
		return "unauthorized"
	case fiber.StatusForbidden:
		return "forbidden"
	case fiber.StatusNotFound:
		return "not found"
	case fiber.StatusConflict:
		return "conflict"
	case fiber.StatusUnprocessableEntity:
		return "unprocessable entity"
	default:
		if status >= 500 {
			return "internal server error"
		}
		return "error"
	}
}
