package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/employee-registry/internal/adapters/csvimport"
	"github.com/ogurasousui/employee-registry/internal/core/employee"
	"go.uber.org/zap"
)

const (
	csvFormField   = "file"
	photoFormField = "profilePhoto"
)

var errInvalidRequestBody = errors.New("handler: invalid request body")

// EmployeeHandler は社員 API の HTTP ハンドラーです。
type EmployeeHandler struct {
	svc    employee.UseCase
	logger *zap.Logger
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(svc employee.UseCase, logger *zap.Logger) *EmployeeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeHandler{svc: svc, logger: logger}
}

// RegisterRoutes は社員 API のルートを登録します。
func (h *EmployeeHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api/employees")
	{
		api.POST("", h.CreateEmployee)
		api.POST("/upload-profile", h.CreateEmployeeWithPhoto)
		api.GET("/filter-by-phone", h.FilterByPhone)
		api.GET("/filter-by-email", h.FilterByEmail)
		api.GET("/:id", h.GetEmployee)
	}
}

type createEmployeeRequest struct {
	Name          string `json:"name" form:"name"`
	Email         string `json:"email" form:"email"`
	Phone         string `json:"phone" form:"phone"`
	EmployeeTitle string `json:"employeeTitle" form:"employeeTitle"`
	Status        *bool  `json:"status" form:"status"`
}

func (r createEmployeeRequest) toInput() employee.CreateEmployeeInput {
	return employee.CreateEmployeeInput{
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		EmployeeTitle: r.EmployeeTitle,
		Status:        r.Status,
	}
}

type employeeResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	EmployeeTitle   string    `json:"employeeTitle"`
	Phone           string    `json:"phone"`
	Status          bool      `json:"status"`
	ProfilePhotoURL *string   `json:"profilePhotoUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toEmployeeResponse(e *employee.Employee) employeeResponse {
	return employeeResponse{
		ID:              e.ID,
		Name:            e.Name,
		Email:           e.Email,
		EmployeeTitle:   e.EmployeeTitle,
		Phone:           e.Phone,
		Status:          e.Status,
		ProfilePhotoURL: e.ProfilePhotoURL,
		CreatedAt:       e.CreatedAt,
	}
}

type profileResponse struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmployeeTitle string `json:"employeeTitle"`
	Phone         string `json:"phone"`
}

func toProfileResponse(p employee.Profile) profileResponse {
	return profileResponse{
		Name:          p.Name,
		Email:         p.Email,
		EmployeeTitle: p.EmployeeTitle,
		Phone:         p.Phone,
	}
}

// CreateEmployee は JSON の単一レコード、または multipart の CSV ファイルを受け付けます。
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		h.uploadCSV(c)
		return
	}

	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, fmt.Errorf("%w: %w", errInvalidRequestBody, err))
		return
	}

	created, err := h.svc.CreateEmployee(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Employee added successfully",
		"employee": toEmployeeResponse(created),
	})
}

func (h *EmployeeHandler) uploadCSV(c *gin.Context) {
	header, err := c.FormFile(csvFormField)
	if err != nil {
		respondError(c, h.logger, fmt.Errorf("%w: %w", employee.ErrInvalidBatch, err))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, h.logger, fmt.Errorf("open uploaded csv: %w", err))
		return
	}
	defer file.Close()

	reader, err := csvimport.NewReader(file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.svc.IngestBatch(c.Request.Context(), reader.Rows())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "CSV data uploaded successfully",
		"accepted": result.Accepted,
		"skipped":  result.Skipped,
	})
}

// CreateEmployeeWithPhoto は社員フィールドと任意のプロフィール写真を受け付けます。
func (h *EmployeeHandler) CreateEmployeeWithPhoto(c *gin.Context) {
	var req createEmployeeRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.logger, fmt.Errorf("%w: %w", errInvalidRequestBody, err))
		return
	}

	var photo *employee.Photo
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		header, err := c.FormFile(photoFormField)
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			respondError(c, h.logger, fmt.Errorf("%w: %w", errInvalidRequestBody, err))
			return
		default:
			file, err := header.Open()
			if err != nil {
				respondError(c, h.logger, fmt.Errorf("open uploaded photo: %w", err))
				return
			}
			defer file.Close()
			photo = &employee.Photo{Filename: header.Filename, Content: file}
		}
	}

	created, err := h.svc.CreateEmployeeWithPhoto(c.Request.Context(), req.toInput(), photo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Employee added successfully",
		"employee": toEmployeeResponse(created),
	})
}

// GetEmployee は ID で社員を返します。
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	found, err := h.svc.GetEmployee(c.Request.Context(), employee.GetEmployeeInput{ID: c.Param("id")})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"employee": toEmployeeResponse(found)})
}

// FilterByPhone は電話番号で社員を検索します。
func (h *EmployeeHandler) FilterByPhone(c *gin.Context) {
	page, err := queryInt(c, "page")
	if err != nil {
		respondError(c, h.logger, fmt.Errorf("%w: %w", employee.ErrInvalidPage, err))
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		respondError(c, h.logger, fmt.Errorf("%w: %w", employee.ErrInvalidPageSize, err))
		return
	}

	profiles, err := h.svc.FilterByPhone(c.Request.Context(), employee.FilterByPhoneInput{
		PhoneNumber: c.Query("phoneNumber"),
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		resp = append(resp, toProfileResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"employees": resp})
}

// FilterByEmail はメールアドレスで社員を 1 件返します。
func (h *EmployeeHandler) FilterByEmail(c *gin.Context) {
	profile, err := h.svc.FilterByEmail(c.Request.Context(), employee.FilterByEmailInput{Email: c.Query("email")})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"employee": toProfileResponse(*profile)})
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
