package appers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

type ErrorResp struct {
	StatusCode int    `json:"statusCode,omitempty"`
	StatusDesc string `json:"statusDesc,omitempty"`
}

func (e ErrorResp) Error() string {
	return e.StatusDesc
}

var (
	ErrAssignmentNotFound = ErrorResp{
		http.StatusNotFound,
		"calling assignment not found",
	}
	ErrMeetingNotFound = ErrorResp{
		http.StatusNotFound,
		"meeting not found",
	}
	ErrOutboxNotFound = ErrorResp{
		http.StatusNotFound,
		"outbox entry not found",
	}
	ErrSnapshotNotFound = ErrorResp{
		http.StatusNotFound,
		"publish snapshot not found",
	}
	ErrInvalidTransition = ErrorResp{
		http.StatusConflict,
		"transition is not allowed from the current stage",
	}
	ErrStaleStage = ErrorResp{
		http.StatusConflict,
		"stage was changed concurrently, reload and retry",
	}
	ErrMeetingCompleted = ErrorResp{
		http.StatusConflict,
		"meeting is already completed",
	}
	ErrVersionConflict = ErrorResp{
		http.StatusConflict,
		"publish snapshot version conflict, retry",
	}
	ErrNotRedeliverable = ErrorResp{
		http.StatusConflict,
		"outbox entry is not in a terminal status",
	}
	ErrAssignmentInactive = ErrorResp{
		http.StatusConflict,
		"calling assignment has not been sustained",
	}
	ErrMeetingRequired = ErrorResp{
		StatusCode: http.StatusBadRequest,
		StatusDesc: "meetingId is required for this transition",
	}
	ErrFormatDate = ErrorResp{
		StatusCode: http.StatusBadRequest,
		StatusDesc: "неверный формат даты, ожидается RFC3339",
	}
	ErrBadID = ErrorResp{
		StatusCode: http.StatusBadRequest,
		StatusDesc: "id must be a valid uuid",
	}
)

func SanitizeError(c *fiber.Ctx, err error) error {
	var errResp ErrorResp

	if ok := errors.As(err, &errResp); ok {
		return c.Status(errResp.StatusCode).JSON(fiber.Map{
			"message": errResp.StatusDesc,
		})
	} else {
		return NewErr(c, http.StatusInternalServerError, err)
	}
}

func NewErr(ctx *fiber.Ctx, status int, err error) error {
	return ctx.Status(status).JSON(fiber.Map{
		"message": err.Error(),
	})
}
