package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/abhishek622/portfolio/pkg/model"
	"github.com/abhishek622/portfolio/pkg/response"
)

const contactNotFound = "Contact message not found"

// SubmitContact stores a message from the public contact form.
func (h *Handler) SubmitContact(c *gin.Context) {
	var req model.ContactReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("contact bad request", "err", err)
		response.BadRequest(c, "Invalid request body")
		return
	}

	msg, err := h.Contacts.Submit(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "failed to submit contact message", contactNotFound, err)
		return
	}
	h.Logger.Sugar().Infow("contact message received", "id", msg.ID)
	response.Message(c, "Thank you for your message! I'll get back to you soon.")
}

func (h *Handler) ListContacts(c *gin.Context) {
	var q model.ListContactQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.Logger.Sugar().Warnw("list contacts bad query", "err", err)
	}

	page, err := h.Contacts.List(c.Request.Context(), model.ParseContactFilter(q), model.ParsePagination(q.Page, q.Limit))
	if err != nil {
		h.fail(c, "failed to list contact messages", contactNotFound, err)
		return
	}
	response.OK(c, gin.H{
		"messages":   page.Messages,
		"pagination": page.Pagination,
	})
}

func (h *Handler) GetContact(c *gin.Context) {
	id := c.Param("id")
	msg, err := h.Contacts.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "failed to get contact message", contactNotFound, err, "id", id)
		return
	}
	response.OK(c, gin.H{"contact": msg})
}

func (h *Handler) UpdateContact(c *gin.Context) {
	id := c.Param("id")
	var req model.UpdateContactReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("update contact bad request", "id", id, "err", err)
		response.BadRequest(c, "Invalid request body")
		return
	}

	msg, err := h.Contacts.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, "failed to update contact message", contactNotFound, err, "id", id)
		return
	}
	response.OK(c, gin.H{"contact": msg})
}

func (h *Handler) DeleteContact(c *gin.Context) {
	id := c.Param("id")
	if err := h.Contacts.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "failed to delete contact message", contactNotFound, err, "id", id)
		return
	}
	response.Message(c, "Contact message deleted successfully")
}
