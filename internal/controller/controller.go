package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"discord-strada/internal/discord"
	"discord-strada/internal/model"
	"discord-strada/internal/router"
	"discord-strada/internal/service"
)

// InteractionController exposes the HTTP handlers for the Discord
// interaction endpoint and the activity webhook.
type InteractionController interface {
	HandleInteraction(c *fiber.Ctx) error
	CreateActivity(c *fiber.Ctx) error
}

type interactionController struct {
	verifier        *discord.Verifier
	dispatcher      service.Dispatcher
	activityService service.ActivityService
}

// NewInteractionController builds an InteractionController.
func NewInteractionController(verifier *discord.Verifier, dispatcher service.Dispatcher, activityService service.ActivityService) InteractionController {
	return &interactionController{
		verifier:        verifier,
		dispatcher:      dispatcher,
		activityService: activityService,
	}
}

// HandleInteraction verifies the request signature before anything else
// touches the body, then parses and dispatches. A handler that yields
// no response becomes a 204.
func (h *interactionController) HandleInteraction(c *fiber.Ctx) error {
	signature := c.Get("X-Signature-Ed25519")
	timestamp := c.Get("X-Signature-Timestamp")
	if !h.verifier.Verify(signature, timestamp, c.Body()) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid request signature")
	}

	var interaction model.Interaction
	if err := c.BodyParser(&interaction); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	resp, err := h.dispatcher.Dispatch(c.Context(), &interaction)
	if err != nil {
		var unhandled *service.UnhandledTypeError
		switch {
		case errors.Is(err, router.ErrNoRoute):
			return fiber.NewError(fiber.StatusBadRequest, "unhandled interaction")
		case errors.As(err, &unhandled):
			return fiber.NewError(fiber.StatusBadRequest, unhandled.Error())
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "failed to handle interaction")
		}
	}
	if resp == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(resp)
}

// CreateActivity accepts single activity webhook payloads.
func (h *interactionController) CreateActivity(c *fiber.Ctx) error {
	var req model.ActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	activity, err := h.activityService.BuildActivity(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	result, err := h.activityService.ProcessActivity(c.Context(), activity)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to process activity")
	}
	return c.Status(fiber.StatusAccepted).JSON(result)
}
