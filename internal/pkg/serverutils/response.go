package serverutils

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the uniform {error} envelope.
func ErrorResponse(message string) fiber.Map {
	return fiber.Map{"error": message}
}

// StatusErrorResponse is the upload flavour of the envelope, which also carries status.
func StatusErrorResponse(message string) fiber.Map {
	return fiber.Map{
		"status": "error",
		"error":  message,
	}
}
