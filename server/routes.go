package server

import (
	"errors"

	"github.com/brettbedarf/imgnav"
	"github.com/brettbedarf/imgnav/requests"
	"github.com/gofiber/fiber/v2"
)

// maxCommandBody bounds command request bodies; an index fits in a few bytes
const maxCommandBody = 4 << 10

func (s *Server) routes() {
	cmd := s.app.Group("/cmd")
	cmd.Post("/change_volume", s.handleChangeVolume)
	cmd.Post("/change_drive", s.handleChangeVolume) // legacy name used by older shells
	cmd.Post("/scan_dir", s.handleScanDir)
	cmd.Post("/change_dir", s.handleChangeDir)
	cmd.Get("/count_sub_dir", s.handleCountSubDir)
	cmd.Get("/location", s.handleLocation)
	cmd.Post("/boot", s.handleBoot)

	if s.events != nil {
		s.app.Use("/events", requireUpgrade)
		s.app.Get("/events", s.handleEvents())
	}
}

// statusOf maps a command error onto its HTTP status
func statusOf(err error) int {
	switch {
	case errors.Is(err, requests.ErrBadRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, imgnav.ErrIndexOutOfRange),
		errors.Is(err, imgnav.ErrNotADirectory),
		errors.Is(err, imgnav.ErrNoVolumes):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes err as an ErrorDTO with its mapped status
func fail(c *fiber.Ctx, err error) error {
	logger := loggerFrom(c.Locals(loggerKey))
	status := statusOf(err)
	evt := logger.Debug()
	if status >= fiber.StatusInternalServerError {
		evt = logger.Error()
	}
	evt.Err(err).Str("path", c.Path()).Msg("Command failed")
	return c.Status(status).JSON(requests.NewErrorDTO(err))
}

func (s *Server) handleChangeVolume(c *fiber.Ctx) error {
	n, err := requests.UnmarshalIndexRequest(c.Body())
	if err != nil {
		return fail(c, err)
	}
	idx, err := s.nav.ChangeVolume(n)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(requests.VolumeResponseDTO{Volume: idx})
}

func (s *Server) handleScanDir(c *fiber.Ctx) error {
	snap, err := s.nav.ScanDirectory()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(requests.NewScanResponse(snap))
}

func (s *Server) handleChangeDir(c *fiber.Ctx) error {
	n, err := requests.UnmarshalIndexRequest(c.Body())
	if err != nil {
		return fail(c, err)
	}
	if err := s.nav.ChangeDirectory(n); err != nil {
		return fail(c, err)
	}
	return c.JSON(s.nav.Location())
}

func (s *Server) handleCountSubDir(c *fiber.Ctx) error {
	return c.JSON(requests.CountResponseDTO{Count: s.nav.CountSubdirectories()})
}

func (s *Server) handleLocation(c *fiber.Ctx) error {
	return c.JSON(s.nav.Location())
}

func (s *Server) handleBoot(c *fiber.Ctx) error {
	payload := s.nav.Boot()
	if payload.Drives == nil {
		payload.Drives = []imgnav.VolumeID{}
	}
	return c.JSON(payload)
}
