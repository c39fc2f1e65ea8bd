package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mealdesk/canteen-api/internal/core/ports"
)

// CollectionDispatcher is the interface the handler uses to enqueue
// collection events.
type CollectionDispatcher interface {
	Enqueue(event ports.CollectionInput)
	EnqueueBatch(events []ports.CollectionInput)
}

// MealHandler handles meal collection ingestion.
type MealHandler struct {
	dispatcher CollectionDispatcher
}

// NewMealHandler creates a MealHandler backed by the given dispatcher.
func NewMealHandler(dispatcher CollectionDispatcher) *MealHandler {
	return &MealHandler{dispatcher: dispatcher}
}

// Collect handles POST /meal/collect — enqueues a single scan, returns 202.
//
// @Summary      Record a meal collection scan
// @Tags         meal
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      collectionRequest  true  "Collection scan"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /meal/collect [post]
func (h *MealHandler) Collect(c echo.Context) error {
	scope, err := ctxScope(c)
	if err != nil {
		return err
	}
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req collectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	h.dispatcher.Enqueue(toCollectionInput(req, scope, userID))
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "scan accepted"})
}

// CollectBatch handles POST /meal/collect/batch — enqueues a batch of scans,
// returns 202.
//
// @Summary      Record a batch of meal collection scans
// @Tags         meal
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []collectionRequest  true  "Array of collection scans"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /meal/collect/batch [post]
func (h *MealHandler) CollectBatch(c echo.Context) error {
	scope, err := ctxScope(c)
	if err != nil {
		return err
	}
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var reqs []collectionRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}

	inputs := make([]ports.CollectionInput, 0, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("scan[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, toCollectionInput(req, scope, userID))
	}

	h.dispatcher.EnqueueBatch(inputs)
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "scans accepted",
		Count:   len(inputs),
	})
}
