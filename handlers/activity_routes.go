package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"activity-rewards-system/cache"
	"activity-rewards-system/middleware"
	"activity-rewards-system/services"
)

// SetupActivityRoutes wires the catalog reads and the completion workflow.
// Secured routes take the player identity from the gateway-forwarded headers.
func SetupActivityRoutes(
	app *fiber.App,
	catalog *services.CatalogService,
	progress *services.ProgressService,
	completion *services.CompletionService,
) {
	app.Get("/activities", func(c *fiber.Ctx) error {
		activities, err := catalog.ListActivities(c.Query("category"), c.QueryInt("limit", 100))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(activities)
	})

	secured := app.Group("/s", middleware.UserContextMiddleware())

	// First view of an activity creates the started row.
	secured.Post("/activities/:id/start", func(c *fiber.Ctx) error {
		profileID := c.Locals("profile_id").(string)
		activityID := c.Params("id")
		if _, err := uuid.Parse(activityID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid activity id"})
		}
		if _, err := catalog.GetActivity(activityID); err != nil {
			return respondError(c, err)
		}

		prog, err := progress.EnsureStarted(profileID, activityID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"progress_id": prog.ID,
			"state":       prog.State(),
		})
	})

	// Shared-session start: stamp started rows for a whole party at once.
	secured.Post("/activities/:id/start-party", func(c *fiber.Ctx) error {
		activityID := c.Params("id")
		var req struct {
			ProfileIDs []string `json:"profile_ids"`
		}
		if err := c.BodyParser(&req); err != nil || len(req.ProfileIDs) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "profile_ids required"})
		}
		if len(req.ProfileIDs) > 20 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "too many profiles in one party"})
		}
		if _, err := catalog.GetActivity(activityID); err != nil {
			return respondError(c, err)
		}

		ids, created, err := progress.EnsureBatch(req.ProfileIDs, activityID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"progress_ids": ids,
			"created":      created,
		})
	})

	secured.Get("/activities/:id/progress", func(c *fiber.Ctx) error {
		profileID := c.Locals("profile_id").(string)
		prog, err := progress.GetProgress(profileID, c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		resp := fiber.Map{"state": prog.State()}
		if prog != nil {
			resp["progress"] = prog
		}
		return c.JSON(resp)
	})

	secured.Post("/activities/:id/complete", func(c *fiber.Ctx) error {
		profileID := c.Locals("profile_id").(string)
		activityID := c.Params("id")

		var req struct {
			PhotoURL string `json:"photo_url"`
			Notes    string `json:"notes"`
		}
		// Body is optional for activities without a photo requirement.
		_ = c.BodyParser(&req)

		summary, err := completion.CompleteActivity(profileID, activityID, req.PhotoURL, req.Notes)
		if err != nil {
			return respondError(c, err)
		}

		if summary.XPGained > 0 {
			profile, perr := catalog.GetProfile(profileID)
			if perr == nil {
				_ = cache.Delete(
					fmt.Sprintf("feed:%s:page:1", profile.TeamID),
					"leaderboard:teams",
				)
			}
		}
		return c.JSON(summary)
	})
}
