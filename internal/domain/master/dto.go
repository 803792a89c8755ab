package master

import (
	"regexp"

	"github.com/kintai-works/kintai-backend-go/internal/pkg/validator"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type CreateAllowanceRequest struct {
	Name              string  `json:"name"`
	Amount            float64 `json:"amount"`
	IncludeInOvertime bool    `json:"include_in_overtime"`
	DisplayColor      string  `json:"display_color"`
	DisplayOrder      int     `json:"display_order"`
}

func (r *CreateAllowanceRequest) Validate() error {
	return validateMasterFields(r.Name, r.Amount, r.DisplayColor)
}

type UpdateAllowanceRequest struct {
	ID                string  `json:"allowance_id"`
	Name              string  `json:"name"`
	Amount            float64 `json:"amount"`
	IncludeInOvertime bool    `json:"include_in_overtime"`
	DisplayColor      string  `json:"display_color"`
	DisplayOrder      int     `json:"display_order"`
	IsActive          bool    `json:"is_active"`
}

func (r *UpdateAllowanceRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "allowance_id",
			Message: "allowance_id is required",
		})
	}
	if err := validateMasterFields(r.Name, r.Amount, r.DisplayColor); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateDeductionRequest struct {
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	DisplayColor string  `json:"display_color"`
	DisplayOrder int     `json:"display_order"`
}

func (r *CreateDeductionRequest) Validate() error {
	return validateMasterFields(r.Name, r.Amount, r.DisplayColor)
}

type UpdateDeductionRequest struct {
	ID           string  `json:"deduction_id"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	DisplayColor string  `json:"display_color"`
	DisplayOrder int     `json:"display_order"`
	IsActive     bool    `json:"is_active"`
}

func (r *UpdateDeductionRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "deduction_id",
			Message: "deduction_id is required",
		})
	}
	if err := validateMasterFields(r.Name, r.Amount, r.DisplayColor); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateMasterFields(name string, amount float64, color string) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if amount < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must not be negative",
		})
	}

	if color != "" && !hexColorRegex.MatchString(color) {
		errs = append(errs, validator.ValidationError{
			Field:   "display_color",
			Message: "display_color must be a hex color (#RRGGBB)",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AllowanceResponse struct {
	ID                string `json:"allowance_id"`
	Name              string `json:"name"`
	Amount            string `json:"amount"`
	IncludeInOvertime bool   `json:"include_in_overtime"`
	DisplayColor      string `json:"display_color"`
	DisplayOrder      int    `json:"display_order"`
	IsActive          bool   `json:"is_active"`
}

type DeductionResponse struct {
	ID           string `json:"deduction_id"`
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	DisplayColor string `json:"display_color"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}
