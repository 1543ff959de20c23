package handlers

import (
	"github.com/gofiber/fiber/v2"

	"activity-rewards-system/middleware"
	"activity-rewards-system/services"
)

// SetupBadgeRoutes exposes the caller's badge shelf.
func SetupBadgeRoutes(app *fiber.App, badges *services.BadgeService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/profile/badges", func(c *fiber.Ctx) error {
		profileID := c.Locals("profile_id").(string)

		held, catalog, err := badges.HeldBadges(profileID)
		if err != nil {
			return respondError(c, err)
		}

		type badgeView struct {
			BadgeID     string `json:"badge_id"`
			Code        string `json:"code"`
			Name        string `json:"name"`
			Description string `json:"description,omitempty"`
			IconURL     string `json:"icon_url,omitempty"`
			EarnedAt    string `json:"earned_at"`
		}

		byID := make(map[string]int, len(catalog))
		for i, b := range catalog {
			byID[b.ID] = i
		}

		views := make([]badgeView, 0, len(held))
		for _, ub := range held {
			i, ok := byID[ub.BadgeID]
			if !ok {
				continue // catalog entry removed since award
			}
			views = append(views, badgeView{
				BadgeID:     catalog[i].ID,
				Code:        catalog[i].Code,
				Name:        catalog[i].Name,
				Description: catalog[i].Description,
				IconURL:     catalog[i].IconURL,
				EarnedAt:    ub.EarnedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}
		return c.JSON(views)
	})
}
