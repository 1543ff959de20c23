package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"activity-rewards-system/cache"
	"activity-rewards-system/models"
	"activity-rewards-system/services"
)

const feedCacheTTL = 30 * time.Second

type feedPage struct {
	Entries []models.UserAchievement `json:"entries"`
	Page    int                      `json:"page"`
	Size    int                      `json:"size"`
	Total   int64                    `json:"total"`
}

// SetupTeamRoutes wires the achievement feed and the team leaderboard. Both
// are read-heavy screens, so first-page reads go through redis with a short
// TTL; completion invalidates the hot keys.
func SetupTeamRoutes(app *fiber.App, teams *services.TeamService, ledger *services.LedgerService) {
	app.Get("/teams/leaderboard", func(c *fiber.Ctx) error {
		var cached []models.TeamLeaderboardSnapshot
		if err := cache.Get("leaderboard:teams", &cached); err == nil {
			return c.JSON(cached)
		}

		rows, err := teams.Leaderboard(c.QueryInt("limit", 50))
		if err != nil {
			return respondError(c, err)
		}
		_ = cache.Set("leaderboard:teams", rows, feedCacheTTL)
		return c.JSON(rows)
	})

	app.Get("/teams/:id/feed", func(c *fiber.Ctx) error {
		teamID := c.Params("id")
		page := c.QueryInt("page", 1)
		size := c.QueryInt("size", 20)

		if _, err := teams.GetTeam(teamID); err != nil {
			return respondError(c, err)
		}

		key := fmt.Sprintf("feed:%s:page:%d", teamID, page)
		if page == 1 {
			var cached feedPage
			if err := cache.Get(key, &cached); err == nil {
				return c.JSON(cached)
			}
		}

		entries, total, err := ledger.TeamFeed(teamID, page, size)
		if err != nil {
			return respondError(c, err)
		}
		resp := feedPage{Entries: entries, Page: page, Size: size, Total: total}
		if page == 1 {
			_ = cache.Set(key, resp, feedCacheTTL)
		}
		return c.JSON(resp)
	})

	app.Get("/teams/:id", func(c *fiber.Ctx) error {
		team, err := teams.GetTeam(c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(team)
	})
}
