package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kirillkom/evidence-organizer/internal/core/domain"
	"github.com/kirillkom/evidence-organizer/internal/core/ports"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

type openCaseRequest struct {
	CaseID string `json:"case_id" validate:"required,max=128"`
	Route  string `json:"route" validate:"omitempty,max=64"`
}

type classifyRequest struct {
	Path     string `json:"path" validate:"required_without=Filename,max=1024"`
	Filename string `json:"filename" validate:"max=255"`
}

type ingestFileRequest struct {
	SourcePath string `json:"source_path" validate:"max=1024"`
	Name       string `json:"name" validate:"required,max=255"`
	SizeBytes  int64  `json:"size_bytes" validate:"gte=0"`
	Pages      int    `json:"pages" validate:"gte=0,lte=10000"`
}

type ingestRequest struct {
	Files []ingestFileRequest `json:"files" validate:"required,min=1,max=500,dive"`
}

func (r ingestRequest) uploads() []ports.UploadedFile {
	out := make([]ports.UploadedFile, 0, len(r.Files))
	for _, f := range r.Files {
		out = append(out, ports.UploadedFile{
			SourcePath: f.SourcePath,
			Name:       f.Name,
			SizeBytes:  f.SizeBytes,
			Pages:      f.Pages,
		})
	}
	return out
}

type moveFileRequest struct {
	TargetGroupID string `json:"target_group_id" validate:"required"`
}

type splitFileRequest struct {
	PageIndices []int  `json:"page_indices" validate:"required,min=1,dive,gte=0"`
	NewFileName string `json:"new_file_name" validate:"required,max=255"`
}

type createGroupRequest struct {
	Template string `json:"template" validate:"required,max=128"`
	Tag      string `json:"tag" validate:"omitempty,max=64"`
}

type renameGroupRequest struct {
	Title string `json:"title" validate:"required,max=128"`
}

type reorderFileRequest struct {
	From *int `json:"from" validate:"required,gte=0"`
	To   *int `json:"to" validate:"required,gte=0"`
}

type linkEvidenceRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type completeAnalysisRequest struct {
	AnalyzedAt time.Time `json:"analyzed_at"`
	FileIDs    []string  `json:"file_ids" validate:"dive,required"`
}

type commandResponse struct {
	ports.CommandResult
	FileIDs []string `json:"file_ids,omitempty"`
	FileID  string   `json:"file_id,omitempty"`
	GroupID string   `json:"group_id,omitempty"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// decodeJSON reads one JSON object from the body and runs struct validation on it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		if errors.Is(err, io.EOF) {
			err = errors.New("request body is empty")
		}
		return domain.WrapError(domain.ErrInvalidInput, "decode request", err)
	}
	if err := validate.Struct(dst); err != nil {
		return domain.WrapError(domain.ErrInvalidInput, "validate request", describeValidation(err))
	}
	return nil
}

func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}
