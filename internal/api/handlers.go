package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"

	"github.com/pageza/feedback/backend/internal/challenge"
	"github.com/pageza/feedback/backend/internal/middleware"
	"github.com/pageza/feedback/backend/internal/service"
	"github.com/pageza/feedback/backend/internal/session"
)

type FeedbackHandler struct {
	feedback   service.IFeedbackService
	challenges session.ChallengeStore
	sessions   *session.Manager
}

func NewFeedbackHandler(feedback service.IFeedbackService, challenges session.ChallengeStore, sessions *session.Manager) *FeedbackHandler {
	return &FeedbackHandler{
		feedback:   feedback,
		challenges: challenges,
		sessions:   sessions,
	}
}

// RegisterRoutes mounts the site on router. submitMiddleware runs in front
// of form posts only.
func (h *FeedbackHandler) RegisterRoutes(router *gin.Engine, submitMiddleware ...gin.HandlerFunc) {
	router.SetHTMLTemplate(mustLoadTemplates())
	router.StaticFS("/static", staticFileSystem())

	router.GET("/", h.GiveFeedback)
	router.POST("/", append(submitMiddleware, h.SubmitFeedback)...)
	router.GET("/message/:id", h.ShowMessage)
	router.GET("/faq", h.FAQ)

	for _, kind := range []string{"happy", "unhappy"} {
		router.GET("/"+kind, h.listFirstPage(kind))
		router.GET("/"+kind+"/page/:page", h.listPage(kind))
	}

	exports := router.Group("", middleware.ExportCORS())
	{
		exports.GET("/feedback.txt", h.exportAll(service.FormatText))
		exports.GET("/feedback.json", h.exportAll(service.FormatJSON))
		exports.GET("/feedback-:version", h.ExportVersion)
	}

	router.NoRoute(h.notFound)
}

// GiveFeedback shows the form with a fresh challenge for this session
func (h *FeedbackHandler) GiveFeedback(c *gin.Context) {
	sid, err := h.sessions.ID(c.Writer, c.Request)
	if err != nil {
		h.serverError(c, err, "starting session")
		return
	}

	value, err := challenge.Issue()
	if err != nil {
		h.serverError(c, err, "issuing challenge")
		return
	}
	if err := h.challenges.Put(c.Request.Context(), sid, value); err != nil {
		h.serverError(c, err, "storing challenge")
		return
	}

	c.HTML(http.StatusOK, "give_feedback.html", gin.H{
		"Challenge":     value,
		"MaxTextLength": service.MaxTextLength,
	})
}

// SubmitFeedback consumes the session's challenge and stores the message.
// Every rejection silently sends the submitter back to the form.
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	ctx := c.Request.Context()

	sid, err := h.sessions.ID(c.Writer, c.Request)
	if err != nil {
		h.serverError(c, err, "starting session")
		return
	}

	value, ok, err := h.challenges.Take(ctx, sid)
	if err != nil {
		h.serverError(c, err, "taking challenge")
		return
	}

	req := &service.SubmitRequest{
		Kind:     c.PostForm("kind"),
		Text:     c.PostForm("feedback"),
		Version:  c.PostForm("version"),
		Response: c.PostForm("response"),
	}
	feedback, err := h.feedback.Submit(ctx, req, service.PendingChallenge{Value: value, Valid: ok})
	if err != nil {
		if errors.Is(err, service.ErrRejected) {
			grip.Debug(message.WrapError(err, message.Fields{
				"message":    "submission rejected",
				"client":     c.ClientIP(),
				"request_id": c.GetString("request_id"),
			}))
			c.Redirect(http.StatusFound, "/")
			return
		}
		h.serverError(c, err, "submitting feedback")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/message/%d", feedback.ID))
}

func (h *FeedbackHandler) ShowMessage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.notFound(c)
		return
	}

	feedback, err := h.feedback.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.notFound(c)
			return
		}
		h.serverError(c, err, "loading message")
		return
	}

	c.HTML(http.StatusOK, "show_message.html", gin.H{"Feedback": feedback})
}

func (h *FeedbackHandler) FAQ(c *gin.Context) {
	c.HTML(http.StatusOK, "faq.html", gin.H{"MaxTextLength": service.MaxTextLength})
}

func (h *FeedbackHandler) listFirstPage(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.showFeedback(c, kind, 1)
	}
}

func (h *FeedbackHandler) listPage(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.Param("page"))
		if err != nil {
			h.notFound(c)
			return
		}
		h.showFeedback(c, kind, page)
	}
}

func (h *FeedbackHandler) showFeedback(c *gin.Context, kind string, page int) {
	p, err := h.feedback.ListBySentiment(c.Request.Context(), kind, page)
	if err != nil {
		if errors.Is(err, service.ErrPageNotFound) {
			h.notFound(c)
			return
		}
		h.serverError(c, err, "listing feedback")
		return
	}

	c.HTML(http.StatusOK, "show_feedback.html", gin.H{"Page": p})
}

func (h *FeedbackHandler) exportAll(format string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.export(c, service.AllVersions, format)
	}
}

// ExportVersion serves /feedback-<version>.txt and /feedback-<version>.json
func (h *FeedbackHandler) ExportVersion(c *gin.Context) {
	param := c.Param("version")
	for _, format := range []string{service.FormatText, service.FormatJSON} {
		version, ok := strings.CutSuffix(param, "."+format)
		if ok && version != "" {
			h.export(c, version, format)
			return
		}
	}
	h.notFound(c)
}

func (h *FeedbackHandler) export(c *gin.Context, version, format string) {
	items, err := h.feedback.ExportAll(c.Request.Context(), version)
	if err != nil {
		h.serverError(c, err, "exporting feedback")
		return
	}

	switch format {
	case service.FormatJSON:
		c.JSON(http.StatusOK, service.ExportJSON(items))
	default:
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.ExportText(items)))
	}
}

func (h *FeedbackHandler) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found.html", nil)
}

func (h *FeedbackHandler) serverError(c *gin.Context, err error, action string) {
	grip.Error(message.WrapError(err, message.Fields{
		"message":    action,
		"path":       c.Request.URL.Path,
		"request_id": c.GetString("request_id"),
	}))
	c.String(http.StatusInternalServerError, "Internal Server Error")
}
