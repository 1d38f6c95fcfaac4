package audit

import (
	"fmt"
	"time"

	"sku-dashboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SaveLogResponse struct {
	ID         uint   `json:"id"`
	CreatedAt  string `json:"created_at"`
	UserID     string `json:"user_id"`
	Dataset    string `json:"dataset"`
	Rows       int    `json:"rows"`
	Chunks     int    `json:"chunks"`
	Generation string `json:"generation"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

func toResponse(l models.SaveLog) SaveLogResponse {
	return SaveLogResponse{
		ID:         l.ID,
		CreatedAt:  l.CreatedAt.Format("2006-01-02 15:04:05"),
		UserID:     l.UserID,
		Dataset:    l.Dataset,
		Rows:       l.Rows,
		Chunks:     l.Chunks,
		Generation: l.Generation,
		Success:    l.Success,
		Error:      l.Error,
	}
}

// GET /api/admin/save-logs?dataset=sales&user_id=u1&since=2024-01-01&limit=50
func ListSaveLogsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := Filter{
			UserID:  c.Query("user_id"),
			Dataset: c.Query("dataset"),
		}

		if s := c.Query("since"); s != "" {
			since, err := time.Parse("2006-01-02", s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "since must be YYYY-MM-DD")
			}
			f.Since = since
		}
		if s := c.Query("limit"); s != "" {
			if _, err := fmt.Sscan(s, &f.Limit); err != nil || f.Limit <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "invalid limit")
			}
		}

		logs, err := svc.List(c.UserContext(), f)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "save logs could not be listed")
		}

		resp := make([]SaveLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, toResponse(l))
		}
		return c.JSON(resp)
	}
}
