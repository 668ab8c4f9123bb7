package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipeline"
	"bscpro/bank-export/internal/pipelineerror"
	"bscpro/bank-export/internal/report"
	"bscpro/bank-export/internal/store"
)

// WarningsHeader reports how many rows an export skipped or adjusted.
const WarningsHeader = "X-Export-Warnings"

// exportBody is the JSON body of the export, classify and summary calls.
type exportBody struct {
	Transactions    []models.RawTransaction          `json:"transactions"`
	Text            string                           `json:"text"`
	Classifications map[string]models.Classification `json:"classifications"`
	Bank            string                           `json:"bank"`
	IBAN            string                           `json:"rekeningnummer"`
	CompanyName     string                           `json:"company_name"`
}

// Handler serves the API routes.
type Handler struct {
	pipeline    *pipeline.Service
	rules       store.RuleRepository
	defaultUser string
	logger      logging.Logger
}

// NewHandler creates a Handler.
func NewHandler(svc *pipeline.Service, rules store.RuleRepository, defaultUser string, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Handler{pipeline: svc, rules: rules, defaultUser: defaultUser, logger: logger}
}

func (h *Handler) userID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(UserHeader)); id != "" {
		return id
	}
	return h.defaultUser
}

func (h *Handler) input(c *gin.Context, format string) (pipeline.Input, bool) {
	var body exportBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return pipeline.Input{}, false
	}
	return pipeline.Input{
		Transactions:    body.Transactions,
		Text:            body.Text,
		Format:          format,
		Bank:            body.Bank,
		IBAN:            body.IBAN,
		User:            models.UserMetadata{UserID: h.userID(c), CompanyName: body.CompanyName},
		Classifications: body.Classifications,
	}, true
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Formats lists the export formats.
func (h *Handler) Formats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"formats": h.pipeline.Registry().Formats()})
}

// Export runs the pipeline and returns the file as a download.
func (h *Handler) Export(c *gin.Context) {
	in, ok := h.input(c, c.Param("format"))
	if !ok {
		return
	}

	out, err := h.pipeline.Run(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	res := out.Result
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.Filename))
	c.Header(WarningsHeader, strconv.Itoa(len(res.Warnings)))
	c.Data(http.StatusOK, res.ContentType, res.Bytes)
}

// Classify returns the classification of every transaction by id.
func (h *Handler) Classify(c *gin.Context) {
	in, ok := h.input(c, "")
	if !ok {
		return
	}
	in.Classifications = nil

	b, err := h.pipeline.Prepare(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"transactions":    b.Transactions,
		"classifications": b.Classifications,
		"warnings":        nonNil(b.Warnings),
	})
}

// Summary returns the category and BTW summary of the transactions.
func (h *Handler) Summary(c *gin.Context) {
	in, ok := h.input(c, "")
	if !ok {
		return
	}

	b, err := h.pipeline.Prepare(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": report.Build(b.Transactions, b.Classifications)})
}

// ListRules returns the active rules of the user, or all rules with
// ?all=true.
func (h *Handler) ListRules(c *gin.Context) {
	userID := h.userID(c)

	var (
		rules []models.Rule
		err   error
	)
	if all, _ := strconv.ParseBool(c.Query("all")); all {
		rules, err = h.rules.ListRules(c.Request.Context(), userID)
	} else {
		rules, err = h.rules.ListActiveRules(c.Request.Context(), userID)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": nonNil(rules)})
}

// CreateRule adds a rule for the user.
func (h *Handler) CreateRule(c *gin.Context) {
	var body store.RulePatch
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if isBlank(body.Keyword) || isBlank(body.GrootboekCode) || isBlank(body.BTWPercentage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	rule, err := h.rules.AddRule(c.Request.Context(), body.NewRule(h.userID(c)))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rule": rule})
}

// UpdateRule changes the fields present in the body; absent fields keep
// their value.
func (h *Handler) UpdateRule(c *gin.Context) {
	var body store.RulePatch
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	rule, err := h.rules.UpdateRule(c.Request.Context(), h.userID(c), c.Param("id"), body)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rule": rule})
}

// DeleteRule deactivates a rule.
func (h *Handler) DeleteRule(c *gin.Context) {
	if err := h.rules.DeleteRule(c.Request.Context(), h.userID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rule deactivated"})
}

// SeedRules copies the default rule set to the user.
func (h *Handler) SeedRules(c *gin.Context) {
	added, err := h.rules.SeedDefaults(c.Request.Context(), h.userID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

// respondError maps pipeline errors to status codes. Only input problems
// are described to the caller; everything else is logged.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case pipelineerror.IsInputError(err):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrRuleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "rule not found"})
		return
	case errors.As(err, new(*pipelineerror.ExtractionError)):
		status = http.StatusUnprocessableEntity
	}

	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).Error("Request failed",
			logging.Field{Key: "path", Value: c.FullPath()})
	}
	c.JSON(status, gin.H{"error": pipelineerror.UserMessage(err)})
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
