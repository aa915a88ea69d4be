// handlers/commentary.go - Commentary endpoint
package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// GetCommentary returns commentary for a chapter, or for one verse when the
// verse parameter is present.
//
//	/api/commentary?source=matthew-henry&book=Genesis&chapter=5     -> {"1": ..., "2": ...}
//	/api/commentary?source=matthew-henry&book=Genesis&chapter=5&verse=3 -> {"3": ...}
func GetCommentary(c *fiber.Ctx) error {
	source := c.Query("source")
	if _, ok := commentaries.Get(source); !ok {
		return fiber.NewError(404, "Commentary source not found")
	}

	bookKey, ok := commentaries.NormalizeBook(source, c.Query("book"))
	if !ok {
		return fiber.NewError(404, "Book not found in commentary")
	}

	verses, ok := commentaries.Chapter(source, bookKey, c.Query("chapter"))
	if !ok {
		return fiber.NewError(404, "Chapter not found in commentary")
	}

	if verse := c.Query("verse"); verse != "" {
		text, ok := verses[verse]
		if !ok {
			return fiber.NewError(404, "Verse not found in commentary")
		}
		return c.JSON(fiber.Map{verse: text})
	}
	return c.JSON(verses)
}
