package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type PointRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (req *PointRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 64)),
		validation.Field(&req.Description, validation.Length(0, 500)),
	)
}

// CaptureRequest submits a capture. FactionName may be left empty by members,
// whose own faction is used.
type CaptureRequest struct {
	FactionName string `json:"faction_name"`
	PointName   string `json:"point_name"`
	EvidenceURL string `json:"evidence_url"`
}

func (req *CaptureRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FactionName, validation.Length(0, 64)),
		validation.Field(&req.PointName, validation.Required, validation.Length(1, 64)),
		validation.Field(&req.EvidenceURL, validation.Required, is.URL),
	)
}
