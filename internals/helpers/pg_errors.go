package helper

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
)

// IsUniqueViolation: SQLSTATE 23505. pgx tidak mengembalikan *pq.Error,
// jadi tetap ada fallback cek substring.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "sqlstate 23505") ||
		strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint")
}

// IsCheckViolation: SQLSTATE 23514.
func IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23514"
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "sqlstate 23514") || strings.Contains(s, "check constraint")
}

// ReqCtx: context standar dari request (diisi middleware timeout).
func ReqCtx(c *fiber.Ctx) context.Context {
	if uc := c.UserContext(); uc != nil {
		return uc
	}
	return context.Background()
}
