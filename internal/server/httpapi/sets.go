package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/flashnest/internal/server/models"
	"github.com/gin-gonic/gin"
)

func int64Param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		validationFailed(c)
		return 0, false
	}
	return v, true
}

func (h *Handler) addSet(c *gin.Context) {
	var req setPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c)
		return
	}

	set, err := h.sets.AddOrReplaceSet(c.Request.Context(), currentUser(c).ID, req.model())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSetResponse(set))
}

func (h *Handler) listSets(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		validationFailed(c)
		return
	}

	list, err := h.sets.ListSets(c.Request.Context(), currentUser(c).ID, q.Offset, q.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]setResponse, 0, len(list))
	for _, s := range list {
		out = append(out, newSetResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

// lookupSet resolves the :id parameter to one of the current user's sets,
// writing the failure response itself.
func (h *Handler) lookupSet(c *gin.Context) (*models.Set, bool) {
	id, ok := int64Param(c, "id")
	if !ok {
		return nil, false
	}

	set, err := h.sets.GetSet(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		h.failNotFound(c, err, "Set not found")
		return nil, false
	}
	return set, true
}

func (h *Handler) getSet(c *gin.Context) {
	set, ok := h.lookupSet(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newSetResponse(set))
}

func (h *Handler) deleteSet(c *gin.Context) {
	id, ok := int64Param(c, "id")
	if !ok {
		return
	}

	deleted, err := h.sets.DeleteSet(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !deleted {
		respond(c, http.StatusBadRequest, "Failed to delete set")
		return
	}
	respond(c, http.StatusOK, "Set deleted successfully")
}

func (h *Handler) getCard(c *gin.Context) {
	set, ok := h.lookupSet(c)
	if !ok {
		return
	}
	cardID, ok := int64Param(c, "card_id")
	if !ok {
		return
	}

	card, err := h.sets.GetCard(c.Request.Context(), set, cardID)
	if err != nil {
		h.failNotFound(c, err, "Card not found")
		return
	}
	c.JSON(http.StatusOK, newCardResponse(card))
}
