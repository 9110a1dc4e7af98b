package controllers

import (
	"github.com/gofiber/fiber/v2"
)

// CommonResponse is the envelope every JSON endpoint answers with.
type CommonResponse struct {
	Status bool   `json:"status"`
	Msg    string `json:"msg,omitempty"`
	Data   any    `json:"data,omitempty"`
}

func sendOK(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(CommonResponse{Status: true, Data: data})
}

func sendError(c *fiber.Ctx, statusCode int, msg string) error {
	return c.Status(statusCode).JSON(CommonResponse{Status: false, Msg: msg})
}
