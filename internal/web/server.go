package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-directory/internal/client"
	"github.com/SAP-F-2025/school-directory/internal/handlers"
	"github.com/SAP-F-2025/school-directory/internal/utils"
	"github.com/SAP-F-2025/school-directory/internal/validator"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server renders the browser pages and talks to the API through client.SchoolAPI.
// It keeps no state between requests.
type Server struct {
	api           client.SchoolAPI
	validator     *validator.Validator
	logger        utils.Logger
	bannerTimeout time.Duration
}

func NewServer(api client.SchoolAPI, v *validator.Validator, logger utils.Logger, bannerTimeout time.Duration) *Server {
	return &Server{
		api:           api,
		validator:     v,
		logger:        logger,
		bannerTimeout: bannerTimeout,
	}
}

type formField struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Value       string
	Error       string
}

// ParseTemplates loads the embedded page templates
func ParseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"field": func(name, label, typ, placeholder, value string, errs map[string]string) formField {
			return formField{
				Name:        name,
				Label:       label,
				Type:        typ,
				Placeholder: placeholder,
				Value:       value,
				Error:       errs[name],
			}
		},
	}

	tmpl, err := template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// Routes registers the pages and the common middleware on router
func (s *Server) Routes(router *gin.Engine) error {
	tmpl, err := ParseTemplates()
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(tmpl)

	router.Use(handlers.RequestIDMiddleware())
	router.Use(gin.Recovery())
	router.Use(utils.ContextLogger(s.logger))
	router.Use(utils.LoggerMiddleware(s.logger))

	router.GET("/", s.Index)
	router.GET("/schools", s.Schools)
	router.GET("/add", s.AddForm)
	router.POST("/add", s.SubmitAdd)

	return nil
}

type addPage struct {
	Title        string
	Active       string
	Form         *client.CreateForm
	Banner       string
	BannerMillis int64
}

// Index shows the loading indicator; the page then pulls /schools
func (s *Server) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":      "Schools",
		"Active":     "list",
		"LoadFailed": client.MsgLoadFailed,
	})
}

// Schools renders the list fragment: cards, the empty state or a retry prompt
func (s *Server) Schools(c *gin.Context) {
	view := client.NewListView()
	view.Load(c.Request.Context(), s.api)

	if view.State == client.ListFailed {
		utils.GetLogger(c, s.logger).Warn("Failed to load schools", "error", view.Err)
	}

	c.HTML(http.StatusOK, "schools.html", view)
}

func (s *Server) AddForm(c *gin.Context) {
	form := client.NewCreateForm(s.validator, client.WithBannerTimeout(s.bannerTimeout))
	s.renderAdd(c, http.StatusOK, form)
}

func (s *Server) SubmitAdd(c *gin.Context) {
	var req validator.SchoolCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.GetLogger(c, s.logger).Info("Rejected form body", "error", err)
	}

	form := client.NewCreateForm(s.validator, client.WithBannerTimeout(s.bannerTimeout))
	form.Draft = req

	status := http.StatusOK
	switch form.Submit(c.Request.Context(), s.api) {
	case client.SubmitInvalid:
		status = http.StatusUnprocessableEntity
	case client.SubmitFailed:
		utils.GetLogger(c, s.logger).Warn("Failed to add school", "name", req.Name)
		status = http.StatusBadGateway
	case client.SubmitSucceeded:
		utils.GetLogger(c, s.logger).Info("School added", "name", req.Name)
	}

	s.renderAdd(c, status, form)
}

func (s *Server) renderAdd(c *gin.Context, status int, form *client.CreateForm) {
	page := addPage{
		Title:  "Add School",
		Active: "add",
		Form:   form,
	}
	if msg, ok := form.Banner(); ok {
		page.Banner = msg
		page.BannerMillis = form.BannerRemaining().Milliseconds()
	}
	c.HTML(status, "add.html", page)
}
