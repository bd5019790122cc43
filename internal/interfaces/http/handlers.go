package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/billed/internal/application/port"
	"github.com/garyjia/billed/internal/application/service"
	"github.com/garyjia/billed/internal/auth"
	"github.com/garyjia/billed/internal/domain/entity"
	"github.com/garyjia/billed/internal/infrastructure/export"
	"github.com/garyjia/billed/internal/interfaces/http/views"
	"github.com/garyjia/billed/pkg/utils"
)

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// Dependencies are the collaborators the handlers work with
type Dependencies struct {
	BillList          service.BillListService
	Store             port.BillStore
	Notifier          port.BillNotifier
	Exporter          *export.BillExporter
	Tokens            *auth.TokenService
	Submissions       *SubmissionLimiter
	Receipts          port.FileStorage // nil when receipts are hosted by the bills API
	AllowedExtensions []string
	Cookie            CookieConfig
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	billList    service.BillListService
	store       port.BillStore
	notifier    port.BillNotifier
	exporter    *export.BillExporter
	tokens      *auth.TokenService
	submissions *SubmissionLimiter
	receipts    port.FileStorage
	allowed     []string
	cookie      CookieConfig
	logger      Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(deps Dependencies, logger Logger) *Handlers {
	allowed := deps.AllowedExtensions
	if len(allowed) == 0 {
		allowed = service.DefaultAllowedExtensions
	}
	return &Handlers{
		billList:    deps.BillList,
		store:       deps.Store,
		notifier:    deps.Notifier,
		exporter:    deps.Exporter,
		tokens:      deps.Tokens,
		submissions: deps.Submissions,
		receipts:    deps.Receipts,
		allowed:     allowed,
		cookie:      deps.Cookie,
		logger:      logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// LoginRequest is the employee login form.
// Login is by email only: the client keeps no credentials.
type LoginRequest struct {
	Email string `form:"email" binding:"required"`
}

// NewBillRequest is the new bill form
type NewBillRequest struct {
	Type       string                `form:"type" binding:"required"`
	Name       string                `form:"name"`
	Date       string                `form:"date" binding:"required"`
	Amount     float64               `form:"amount" binding:"required"`
	VAT        string                `form:"vat"`
	Pct        int                   `form:"pct"`
	Commentary string                `form:"commentary"`
	File       *multipart.FileHeader `form:"file" binding:"required"`
}

func (r *NewBillRequest) draft() *entity.NewBillDraft {
	draft := &entity.NewBillDraft{
		Type:       r.Type,
		Name:       utils.SanitizeString(strings.TrimSpace(r.Name)),
		Date:       r.Date,
		Amount:     r.Amount,
		VAT:        strings.TrimSpace(r.VAT),
		Pct:        r.Pct,
		Commentary: utils.SanitizeString(r.Commentary),
	}
	if r.File != nil {
		draft.File.Name = r.File.Filename
	}
	return draft
}

// loginPage is the data of the login template
type loginPage struct {
	Email string
	Error string
}

// newBillPage is the data of the new bill template
type newBillPage struct {
	ExpenseTypes      []string
	AllowedExtensions []string
	Draft             *entity.NewBillDraft
	Error             string
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// LoginPage handles GET /
func (h *Handlers) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, views.LoginPage, loginPage{})
}

// Login handles POST /login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, views.LoginPage, loginPage{
			Email: req.Email,
			Error: "Veuillez renseigner votre email",
		})
		return
	}

	email := strings.TrimSpace(req.Email)
	if err := utils.ValidateEmail(email); err != nil {
		c.HTML(http.StatusBadRequest, views.LoginPage, loginPage{
			Email: req.Email,
			Error: "Adresse email invalide",
		})
		return
	}

	token, err := h.tokens.Issue(email, entity.UserTypeEmployee)
	if err != nil {
		h.logger.Error("Failed to issue session", "email", email, "error", err)
		c.HTML(http.StatusInternalServerError, views.LoginPage, loginPage{
			Email: email,
			Error: "Connexion impossible, veuillez réessayer",
		})
		return
	}

	h.logger.Info("Employee logged in", "email", email)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, int(h.cookie.MaxAge.Seconds()), "/", "", h.cookie.Secure, true)
	redirectNavigator(c).Navigate(port.RouteBills)
}

// Logout handles POST /logout
func (h *Handlers) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	redirectNavigator(c).Navigate(port.RouteLogin)
}

func (h *Handlers) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
}

// BillsPage handles GET /employee/bills
func (h *Handlers) BillsPage(c *gin.Context) {
	view := h.billList.Load(c.Request.Context())
	status := http.StatusOK
	if view.Error != "" {
		status = http.StatusBadGateway
	}
	c.HTML(status, views.BillsPage, view)
}

// ExportBills handles GET /employee/bills/export.xlsx
func (h *Handlers) ExportBills(c *gin.Context) {
	bills, err := h.billList.List(c.Request.Context())
	if err != nil {
		c.HTML(http.StatusBadGateway, views.BillsPage, service.NewBillsView(nil, false, err.Error()))
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="notes-de-frais.xlsx"`)
	c.Status(http.StatusOK)
	if err := h.exporter.Write(c.Writer, bills); err != nil {
		h.logger.Error("Failed to export bills", "error", err)
	}
}

// NewBillPage handles GET /employee/bill/new
func (h *Handlers) NewBillPage(c *gin.Context) {
	c.HTML(http.StatusOK, views.NewBillPage, h.newBillPage(&entity.NewBillDraft{}, ""))
}

// SubmitNewBill handles POST /employee/bill/new.
// On success the form navigates to the bills page.
func (h *Handlers) SubmitNewBill(c *gin.Context) {
	session := currentSession(c)

	var req NewBillRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, views.NewBillPage,
			h.newBillPage(req.draft(), "Veuillez remplir tous les champs obligatoires"))
		return
	}

	draft := req.draft()
	if err := utils.ValidateBillDate(draft.Date); err != nil {
		c.HTML(http.StatusBadRequest, views.NewBillPage, h.newBillPage(draft, "Date invalide"))
		return
	}
	if err := utils.ValidateAmount(draft.Amount); err != nil {
		c.HTML(http.StatusBadRequest, views.NewBillPage, h.newBillPage(draft, "Le montant doit être positif"))
		return
	}

	submitted := false
	if h.submissions != nil {
		done, ok := h.submissions.Begin(session.Email)
		if !ok {
			h.logger.Info("Submission throttled", "email", session.Email)
			c.HTML(http.StatusTooManyRequests, views.NewBillPage,
				h.newBillPage(draft, "Une note de frais vient d'être envoyée, veuillez patienter"))
			return
		}
		defer func() { done(submitted) }()
	}

	content, err := readUpload(req.File)
	if err != nil {
		h.logger.Error("Failed to read receipt", "email", session.Email, "error", err)
		c.HTML(http.StatusBadRequest, views.NewBillPage, h.newBillPage(draft, "Impossible de lire le justificatif"))
		return
	}
	draft.File.Content = content

	form := service.NewNewBillForm(h.store, redirectNavigator(c), h.notifier, session.Email, h.allowed, h.logger)
	err = form.Submit(c.Request.Context(), draft)
	submitted = err == nil
	switch {
	case err == nil:
		return
	case errors.Is(err, service.ErrInvalidExtension):
		c.HTML(http.StatusUnprocessableEntity, views.NewBillPage, h.newBillPage(draft,
			fmt.Sprintf("Seuls les fichiers %s sont acceptés", strings.Join(h.allowed, ", "))))
	default:
		c.HTML(http.StatusBadGateway, views.NewBillPage, h.newBillPage(draft,
			"L'envoi de la note de frais a échoué : "+rootMessage(err)))
	}
}

// Receipt handles GET /receipts/*path
func (h *Handlers) Receipt(c *gin.Context) {
	relPath := strings.TrimPrefix(c.Param("path"), "/")
	if relPath == "" || !h.receipts.Exists(c.Request.Context(), relPath) {
		c.Status(http.StatusNotFound)
		return
	}

	data, err := h.receipts.Read(c.Request.Context(), relPath)
	if err != nil {
		h.logger.Error("Failed to read receipt", "path", relPath, "error", err)
		c.Status(http.StatusNotFound)
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

func (h *Handlers) newBillPage(draft *entity.NewBillDraft, errMsg string) newBillPage {
	return newBillPage{
		ExpenseTypes:      entity.ExpenseTypes,
		AllowedExtensions: h.allowed,
		Draft:             draft,
		Error:             errMsg,
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// rootMessage returns the innermost error message, e.g. "Erreur 500"
func rootMessage(err error) string {
	for {
		switch e := err.(type) {
		case interface{ Unwrap() []error }:
			errs := e.Unwrap()
			if len(errs) == 0 {
				return err.Error()
			}
			err = errs[len(errs)-1]
		case interface{ Unwrap() error }:
			next := e.Unwrap()
			if next == nil {
				return err.Error()
			}
			err = next
		default:
			return err.Error()
		}
	}
}
