package server

import (
	"github.com/gofiber/fiber/v2"

	"arbor/internal/middleware"
	"arbor/internal/models"
)

// UploadMedia accepts a multipart file upload and stores it.
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("missing_file"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("unreadable_file"))
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	mediaRef, serr := s.mediaService.Upload(c.UserContext(), middleware.ActorFromContext(c), file, fileHeader.Size, contentType)
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.Status(fiber.StatusCreated).JSON(mediaRef)
}

// DownloadMedia streams a stored blob.
func (s *Server) DownloadMedia(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	mediaRef, reader, serr := s.mediaService.Download(c.UserContext(), id)
	if serr != nil {
		return models.RespondWithError(c, serr)
	}
	c.Set(fiber.HeaderContentType, mediaRef.ContentType)
	return c.SendStream(reader, int(mediaRef.Size))
}

// DeleteMedia removes a stored blob and its reference.
func (s *Server) DeleteMedia(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	if serr := s.mediaService.Delete(c.UserContext(), middleware.ActorFromContext(c), id); serr != nil {
		return models.RespondWithError(c, serr)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
