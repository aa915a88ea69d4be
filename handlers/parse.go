// handlers/parse.go - Reference parsing endpoints
package handlers

import (
	"net/url"

	"scriptura/parsing"

	"github.com/gofiber/fiber/v2"
)

type ParseRequest struct {
	Reference string `json:"reference"`
	Version   string `json:"version"`
	Format    string `json:"format"` // "html" renders FormattedText via VerseFormatter
}

type ParseMultipleRequest struct {
	References []string `json:"references"`
	Version    string   `json:"version"`
	Format     string   `json:"format"`
}

// ParseReference parses a single reference (POST body).
func ParseReference(c *fiber.Ctx) error {
	var req ParseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(400, "Invalid request body")
	}

	result := parser.Parse(c.UserContext(), req.Reference, req.Version)
	if result.Parsed && req.Format == "html" {
		result.FormattedText = formatter.Format(result.Verses)
	}
	return c.JSON(result)
}

// ParseSingleReference parses a reference given as a path parameter.
func ParseSingleReference(c *fiber.Ctx) error {
	reference := c.Params("reference")
	if decoded, err := url.PathUnescape(reference); err == nil {
		reference = decoded
	}

	result := parser.Parse(c.UserContext(), reference, c.Query("version"))
	if result.Parsed && c.Query("format") == "html" {
		result.FormattedText = formatter.Format(result.Verses)
	}
	return c.JSON(result)
}

// ParseMultipleReferences parses a batch of references in order.
func ParseMultipleReferences(c *fiber.Ctx) error {
	var req ParseMultipleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(400, "Invalid request body")
	}

	results := make([]parsing.Result, 0, len(req.References))
	for _, reference := range req.References {
		result := parser.Parse(c.UserContext(), reference, req.Version)
		if result.Parsed && req.Format == "html" {
			result.FormattedText = formatter.Format(result.Verses)
		}
		results = append(results, result)
	}
	return c.JSON(fiber.Map{"references": results})
}
