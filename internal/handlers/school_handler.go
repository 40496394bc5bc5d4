package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-directory/internal/services"
	"github.com/SAP-F-2025/school-directory/internal/utils"
)

const (
	MsgFetchSchoolsFailed  = "Failed to fetch schools"
	MsgAddSchoolFailed     = "Failed to add school"
	MsgExportSchoolsFailed = "Failed to export schools"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type SchoolHandler struct {
	BaseHandler
	service       services.SchoolService
	exportService services.ExportService
}

func NewSchoolHandler(service services.SchoolService, exportService services.ExportService, logger utils.Logger) *SchoolHandler {
	return &SchoolHandler{
		BaseHandler:   NewBaseHandler(logger),
		service:       service,
		exportService: exportService,
	}
}

// ListSchools returns every school, newest first
// @Summary List schools
// @Tags schools
// @Produce json
// @Success 200 {array} models.School
// @Failure 500 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router /schools [get]
func (h *SchoolHandler) ListSchools(c *gin.Context) {
	h.LogRequest(c, "Listing schools")

	schools, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, MsgFetchSchoolsFailed)
		return
	}

	c.JSON(http.StatusOK, schools)
}

// CreateSchool validates and stores a new school
// @Summary Add school
// @Tags schools
// @Accept json
// @Produce json
// @Param school body services.CreateSchoolRequest true "School data"
// @Success 201 {object} services.CreateSchoolResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router /schools [post]
func (h *SchoolHandler) CreateSchool(c *gin.Context) {
	var req services.CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.GetLogger(c, h.logger).Info("Rejected school body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgInvalidRequestBody})
		return
	}

	h.LogRequest(c, "Creating school", "name", req.Name)

	school, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err, MsgAddSchoolFailed)
		return
	}

	c.JSON(http.StatusCreated, services.CreateSchoolResponse{
		Message: services.SchoolCreatedMessage,
		ID:      school.ID,
	})
}

// ExportSchools downloads the school list as a spreadsheet
// @Summary Export schools
// @Tags schools
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 500 {object} ErrorResponse
// @Router /schools/export [get]
func (h *SchoolHandler) ExportSchools(c *gin.Context) {
	h.LogRequest(c, "Exporting schools")

	buf, err := h.exportService.ExportSchools(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, MsgExportSchoolsFailed)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="schools.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
